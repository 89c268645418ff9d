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

var ErrPricingConfigNotFound = apperrors.NotFound("Pricing config")

type PricingConfigInput struct {
	MinPrice      *decimal.Decimal `json:"min_price" binding:"required"`
	MaxPrice      *decimal.Decimal `json:"max_price"`
	ProductTypeID *uint            `json:"product_type_id" binding:"omitempty,min=1"`
}

type PricingConfigService interface {
	List() ([]dto.PricingConfigResponse, error)
	Get(id uint) (*dto.PricingConfigResponse, error)
	// Effective returns the config for the product type, falling back to the global one.
	Effective(productTypeID *uint) (*dto.PricingConfigResponse, error)
	Create(input PricingConfigInput) (*dto.PricingConfigResponse, error)
	Update(id uint, input PricingConfigInput) (*dto.PricingConfigResponse, error)
	Delete(id uint) error
}

type pricingConfigService struct {
	pricingRepo     repository.PricingConfigRepository
	productTypeRepo repository.ProductTypeRepository
}

func NewPricingConfigService(pricingRepo repository.PricingConfigRepository, productTypeRepo repository.ProductTypeRepository) PricingConfigService {
	return &pricingConfigService{pricingRepo: pricingRepo, productTypeRepo: productTypeRepo}
}

// effectivePricingConfig returns gorm.ErrRecordNotFound when neither a typed nor a global config exists.
func effectivePricingConfig(repo repository.PricingConfigRepository, productTypeID *uint) (*model.PricingConfig, error) {
	if productTypeID != nil {
		cfg, err := repo.FindForProductType(productTypeID)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return repo.FindForProductType(nil)
}

func (s *pricingConfigService) List() ([]dto.PricingConfigResponse, error) {
	configs, err := s.pricingRepo.FindAll()
	if err != nil {
		return nil, apperrors.FromDB(err, "Pricing config")
	}
	return dto.NewPricingConfigResponses(configs), nil
}

func (s *pricingConfigService) find(id uint) (*model.PricingConfig, error) {
	cfg, err := s.pricingRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPricingConfigNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Pricing config")
	}
	return cfg, nil
}

func (s *pricingConfigService) Get(id uint) (*dto.PricingConfigResponse, error) {
	cfg, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPricingConfigResponse(cfg)
	return &resp, nil
}

func (s *pricingConfigService) Effective(productTypeID *uint) (*dto.PricingConfigResponse, error) {
	cfg, err := effectivePricingConfig(s.pricingRepo, productTypeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPricingConfigNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Pricing config")
	}
	resp := dto.NewPricingConfigResponse(cfg)
	return &resp, nil
}

func (s *pricingConfigService) validate(input PricingConfigInput) error {
	if input.MinPrice == nil {
		return apperrors.Validation("min_price is required")
	}
	if err := requireNonNegative("min_price", *input.MinPrice); err != nil {
		return err
	}
	if input.MaxPrice != nil {
		if err := requireNonNegative("max_price", *input.MaxPrice); err != nil {
			return err
		}
		if input.MinPrice.GreaterThan(*input.MaxPrice) {
			return apperrors.Validation("min_price must be less than or equal to max_price")
		}
	}
	if input.ProductTypeID != nil {
		if _, err := s.productTypeRepo.FindByID(*input.ProductTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("product_type_id does not reference an existing product type")
			}
			return apperrors.FromDB(err, "Product type")
		}
	}
	return nil
}

func applyPricingInput(cfg *model.PricingConfig, input PricingConfigInput) {
	cfg.MinPrice = *input.MinPrice
	cfg.MaxPrice = decimal.NullDecimal{}
	if input.MaxPrice != nil {
		cfg.MaxPrice = decimal.NewNullDecimal(*input.MaxPrice)
	}
	cfg.ProductTypeID = input.ProductTypeID
	cfg.ProductType = nil
}

func (s *pricingConfigService) Create(input PricingConfigInput) (*dto.PricingConfigResponse, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	cfg := &model.PricingConfig{}
	applyPricingInput(cfg, input)
	if err := s.pricingRepo.Create(cfg); err != nil {
		return nil, apperrors.FromDB(err, "Pricing config")
	}
	logger.Info("Pricing config created", map[string]interface{}{
		"pricing_config_id": cfg.ID,
		"product_type_id":   cfg.ProductTypeID,
	})
	resp := dto.NewPricingConfigResponse(cfg)
	return &resp, nil
}

func (s *pricingConfigService) Update(id uint, input PricingConfigInput) (*dto.PricingConfigResponse, error) {
	cfg, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}
	applyPricingInput(cfg, input)
	if err := s.pricingRepo.Update(cfg); err != nil {
		return nil, apperrors.FromDB(err, "Pricing config")
	}
	resp := dto.NewPricingConfigResponse(cfg)
	return &resp, nil
}

func (s *pricingConfigService) Delete(id uint) error {
	found, err := s.pricingRepo.Delete(id)
	if err != nil {
		return apperrors.FromDB(err, "Pricing config")
	}
	if !found {
		return ErrPricingConfigNotFound
	}
	return nil
}
