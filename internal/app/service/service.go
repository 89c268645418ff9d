package service

import (
	"fmt"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// EventPublisher receives domain events for the admin live feed.
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// PageQuery is the page/limit pair accepted by list endpoints.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// Normalize applies defaults and caps the limit.
func (q PageQuery) Normalize() repository.Page {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return repository.Page{Number: page, Limit: limit}
}

func pagination(p repository.Page, total int64) dto.Pagination {
	return dto.NewPagination(p.Number, p.Limit, total)
}

func requirePositive(field string, value *decimal.Decimal) error {
	if value == nil {
		return apperrors.Validation(field + " is required")
	}
	if !value.IsPositive() {
		return apperrors.Validation(field + " must be greater than 0")
	}
	return nil
}

func requireNonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return apperrors.Validation(field + " must be greater than or equal to 0")
	}
	return nil
}

func requireMaxScale(field string, value decimal.Decimal) error {
	if value.Exponent() < -2 && !value.Equal(value.Round(2)) {
		return apperrors.Validation(fmt.Sprintf("%s must have at most 2 decimal places", field))
	}
	return nil
}
