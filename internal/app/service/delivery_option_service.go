package service

import (
	"errors"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrDeliveryOptionNotFound = apperrors.NotFound("Delivery option")

type DeliveryOptionInput struct {
	Name          string           `json:"name" binding:"required,min=1,max=100"`
	Description   string           `json:"description" binding:"omitempty,max=1000"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	EstimatedDays int              `json:"estimated_days" binding:"omitempty,min=0,max=365"`
	IsActive      *bool            `json:"is_active"`
}

type DeliveryOptionService interface {
	List(activeOnly bool) ([]dto.DeliveryOptionResponse, error)
	Get(id uint) (*dto.DeliveryOptionResponse, error)
	Create(input DeliveryOptionInput) (*dto.DeliveryOptionResponse, error)
	Update(id uint, input DeliveryOptionInput) (*dto.DeliveryOptionResponse, error)
	Delete(id uint) error
}

type deliveryOptionService struct {
	deliveryRepo repository.DeliveryOptionRepository
}

func NewDeliveryOptionService(deliveryRepo repository.DeliveryOptionRepository) DeliveryOptionService {
	return &deliveryOptionService{deliveryRepo: deliveryRepo}
}

func (s *deliveryOptionService) List(activeOnly bool) ([]dto.DeliveryOptionResponse, error) {
	options, err := s.deliveryRepo.FindAll(activeOnly)
	if err != nil {
		return nil, apperrors.FromDB(err, "Delivery option")
	}
	return dto.NewDeliveryOptionResponses(options), nil
}

func (s *deliveryOptionService) find(id uint) (*model.DeliveryOption, error) {
	option, err := s.deliveryRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeliveryOptionNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Delivery option")
	}
	return option, nil
}

func (s *deliveryOptionService) Get(id uint) (*dto.DeliveryOptionResponse, error) {
	option, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDeliveryOptionResponse(option)
	return &resp, nil
}

func applyDeliveryInput(option *model.DeliveryOption, input DeliveryOptionInput) error {
	if input.Price == nil {
		return apperrors.Validation("price is required")
	}
	if err := requireNonNegative("price", *input.Price); err != nil {
		return err
	}
	if err := requireMaxScale("price", *input.Price); err != nil {
		return err
	}
	option.Name = input.Name
	option.Description = input.Description
	option.Price = *input.Price
	option.EstimatedDays = input.EstimatedDays
	if input.IsActive != nil {
		option.IsActive = *input.IsActive
	}
	return nil
}

func (s *deliveryOptionService) Create(input DeliveryOptionInput) (*dto.DeliveryOptionResponse, error) {
	option := &model.DeliveryOption{IsActive: true}
	if err := applyDeliveryInput(option, input); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Create(option); err != nil {
		return nil, apperrors.FromDB(err, "Delivery option")
	}
	logger.Info("Delivery option created", map[string]interface{}{
		"delivery_option_id": option.ID,
		"name":               option.Name,
	})
	resp := dto.NewDeliveryOptionResponse(option)
	return &resp, nil
}

func (s *deliveryOptionService) Update(id uint, input DeliveryOptionInput) (*dto.DeliveryOptionResponse, error) {
	option, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := applyDeliveryInput(option, input); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Update(option); err != nil {
		return nil, apperrors.FromDB(err, "Delivery option")
	}
	resp := dto.NewDeliveryOptionResponse(option)
	return &resp, nil
}

func (s *deliveryOptionService) Delete(id uint) error {
	found, err := s.deliveryRepo.Delete(id)
	if err != nil {
		return apperrors.FromDB(err, "Delivery option")
	}
	if !found {
		return ErrDeliveryOptionNotFound
	}
	return nil
}
