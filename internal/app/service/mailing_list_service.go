package service

import (
	"strings"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
)

var ErrMailingListEntryNotFound = apperrors.NotFound("Mailing list entry")

type SubscribeInput struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type MailingListService interface {
	// Subscribe is idempotent; created is false when the email was already on the list.
	Subscribe(input SubscribeInput) (entry *dto.MailingListEntryResponse, created bool, err error)
	List(query PageQuery) ([]dto.MailingListEntryResponse, dto.Pagination, error)
	Unsubscribe(id uint) error
}

type mailingListService struct {
	mailingRepo repository.MailingListRepository
}

func NewMailingListService(mailingRepo repository.MailingListRepository) MailingListService {
	return &mailingListService{mailingRepo: mailingRepo}
}

func (s *mailingListService) Subscribe(input SubscribeInput) (*dto.MailingListEntryResponse, bool, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	entry, created, err := s.mailingRepo.Subscribe(email)
	if err != nil {
		return nil, false, apperrors.FromDB(err, "Mailing list entry")
	}
	if created {
		logger.Info("Mailing list subscription added", map[string]interface{}{
			"entry_id": entry.ID,
		})
	}
	return &dto.MailingListEntryResponse{ID: entry.ID, Email: entry.Email, CreatedAt: entry.CreatedAt}, created, nil
}

func (s *mailingListService) List(query PageQuery) ([]dto.MailingListEntryResponse, dto.Pagination, error) {
	page := query.Normalize()
	entries, total, err := s.mailingRepo.List(page)
	if err != nil {
		return nil, dto.Pagination{}, apperrors.FromDB(err, "Mailing list entry")
	}
	return dto.NewMailingListEntryResponses(entries), pagination(page, total), nil
}

func (s *mailingListService) Unsubscribe(id uint) error {
	found, err := s.mailingRepo.Delete(id)
	if err != nil {
		return apperrors.FromDB(err, "Mailing list entry")
	}
	if !found {
		return ErrMailingListEntryNotFound
	}
	return nil
}
