package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound           = apperrors.NotFound("Customer")
	ErrInvalidCustomerCredentials = apperrors.Unauthorized(apperrors.AuthInvalidCredentials, "Invalid email or password")
)

type CustomerAddress struct {
	AddressLine1 string `json:"address_line1" binding:"omitempty,max=255"`
	AddressLine2 string `json:"address_line2" binding:"omitempty,max=255"`
	City         string `json:"city" binding:"omitempty,max=100"`
	State        string `json:"state" binding:"omitempty,max=100"`
	PostalCode   string `json:"postal_code" binding:"omitempty,max=20"`
	Country      string `json:"country" binding:"omitempty,max=100"`
}

type RegisterCustomerInput struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	CustomerAddress
}

type CustomerLoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateCustomerInput struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone        *string `json:"phone" binding:"omitempty,max=30"`
	Password     *string `json:"password" binding:"omitempty,min=8,max=72"`
	AddressLine1 *string `json:"address_line1" binding:"omitempty,max=255"`
	AddressLine2 *string `json:"address_line2" binding:"omitempty,max=255"`
	City         *string `json:"city" binding:"omitempty,max=100"`
	State        *string `json:"state" binding:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" binding:"omitempty,max=20"`
	Country      *string `json:"country" binding:"omitempty,max=100"`
}

type CustomerListQuery struct {
	PageQuery
	Search string `form:"search" binding:"omitempty,max=100"`
}

type CustomerService interface {
	Register(ctx context.Context, input RegisterCustomerInput) (*dto.CustomerAuthResponse, error)
	Login(input CustomerLoginInput) (*dto.CustomerAuthResponse, error)
	GetByID(id uint) (*dto.CustomerResponse, error)
	UpdateProfile(id uint, input UpdateCustomerInput) (*dto.CustomerResponse, error)
	List(query CustomerListQuery) ([]dto.CustomerResponse, dto.Pagination, error)
	Delete(id uint) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	mailer       notify.Mailer
	jwtSecret    string
	jwtExpiry    time.Duration
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	mailer notify.Mailer,
	jwtSecret string,
	jwtExpiry time.Duration,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		mailer:       mailer,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
	}
}

func (s *customerService) Register(ctx context.Context, input RegisterCustomerInput) (*dto.CustomerAuthResponse, error) {
	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	customer := &model.Customer{
		Name:         input.Name,
		Email:        strings.ToLower(input.Email),
		Phone:        input.Phone,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Country:      input.Country,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, apperrors.FromDB(err, "Customer")
	}

	if s.mailer != nil {
		msg, err := notify.WelcomeEmail(customer.Email, customer.Name, "Thanks for creating an account. You can now track your orders from your profile.")
		if err == nil {
			err = s.mailer.Send(ctx, msg)
		}
		if err != nil {
			logger.Error("Failed to send customer welcome email", err, map[string]interface{}{
				"customer_id": customer.ID,
			})
		}
	}

	logger.Info("Customer registered", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return s.issueToken(customer)
}

func (s *customerService) issueToken(customer *model.Customer) (*dto.CustomerAuthResponse, error) {
	token, expiresAt, err := util.GenerateToken(util.TokenSubject{
		ID:       customer.ID,
		Username: customer.Name,
		Email:    customer.Email,
		Role:     "customer",
		UserType: util.UserTypeCustomer,
	}, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &dto.CustomerAuthResponse{
		Customer:  dto.NewCustomerResponse(customer),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *customerService) Login(input CustomerLoginInput) (*dto.CustomerAuthResponse, error) {
	customer, err := s.customerRepo.FindByEmail(strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCustomerCredentials
		}
		return nil, apperrors.FromDB(err, "Customer")
	}
	if !customer.IsActive || !util.VerifyPassword(customer.PasswordHash, input.Password) {
		logger.Warn("Customer login failed", map[string]interface{}{
			"customer_id": customer.ID,
		})
		return nil, ErrInvalidCustomerCredentials
	}
	return s.issueToken(customer)
}

func (s *customerService) find(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Customer")
	}
	return customer, nil
}

func (s *customerService) GetByID(id uint) (*dto.CustomerResponse, error) {
	customer, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCustomerResponse(customer)
	return &resp, nil
}

func (s *customerService) UpdateProfile(id uint, input UpdateCustomerInput) (*dto.CustomerResponse, error) {
	customer, err := s.find(id)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&customer.Name, input.Name)
	assign(&customer.Phone, input.Phone)
	assign(&customer.AddressLine1, input.AddressLine1)
	assign(&customer.AddressLine2, input.AddressLine2)
	assign(&customer.City, input.City)
	assign(&customer.State, input.State)
	assign(&customer.PostalCode, input.PostalCode)
	assign(&customer.Country, input.Country)
	if input.Password != nil {
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		customer.PasswordHash = hash
	}

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, apperrors.FromDB(err, "Customer")
	}
	resp := dto.NewCustomerResponse(customer)
	return &resp, nil
}

func (s *customerService) List(query CustomerListQuery) ([]dto.CustomerResponse, dto.Pagination, error) {
	page := query.Normalize()
	customers, total, err := s.customerRepo.List(repository.CustomerFilter{Search: query.Search, Page: page})
	if err != nil {
		return nil, dto.Pagination{}, apperrors.FromDB(err, "Customer")
	}
	return dto.NewCustomerResponses(customers), pagination(page, total), nil
}

func (s *customerService) Delete(id uint) error {
	found, err := s.customerRepo.Delete(id)
	if err != nil {
		return apperrors.FromDB(err, "Customer")
	}
	if !found {
		return ErrCustomerNotFound
	}
	logger.Info("Customer deleted", map[string]interface{}{
		"customer_id": id,
	})
	return nil
}
