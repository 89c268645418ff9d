package service

import (
	"errors"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrHomepageSettingNotFound = apperrors.NotFound("Homepage setting")

type HomepageSettingInput struct {
	SectionName        string   `json:"section_name" binding:"required,min=1,max=100"`
	SectionTitle       string   `json:"section_title" binding:"omitempty,max=255"`
	SectionDescription string   `json:"section_description" binding:"omitempty,max=5000"`
	SectionPosition    int      `json:"section_position" binding:"omitempty,min=0"`
	SectionImages      []string `json:"section_images" binding:"omitempty,max=20,dive,required,max=500"`
	ProductIDs         []uint   `json:"product_ids" binding:"omitempty,max=100,dive,min=1"`
	IsActive           *bool    `json:"is_active"`
}

type HomepageService interface {
	List(includeInactive bool) ([]dto.HomepageSettingResponse, error)
	// GetSection returns the section with its product ids resolved to products in the stored order.
	GetSection(sectionName string, includeInactive bool) (*dto.HomepageSettingResponse, error)
	Create(input HomepageSettingInput) (*dto.HomepageSettingResponse, error)
	Update(id uint, input HomepageSettingInput) (*dto.HomepageSettingResponse, error)
	Delete(id uint) error
}

type homepageService struct {
	homepageRepo repository.HomepageSettingRepository
	productRepo  repository.ProductRepository
}

func NewHomepageService(homepageRepo repository.HomepageSettingRepository, productRepo repository.ProductRepository) HomepageService {
	return &homepageService{homepageRepo: homepageRepo, productRepo: productRepo}
}

func (s *homepageService) List(includeInactive bool) ([]dto.HomepageSettingResponse, error) {
	settings, err := s.homepageRepo.FindAll(includeInactive)
	if err != nil {
		return nil, apperrors.FromDB(err, "Homepage setting")
	}
	return dto.NewHomepageSettingResponses(settings), nil
}

func (s *homepageService) GetSection(sectionName string, includeInactive bool) (*dto.HomepageSettingResponse, error) {
	setting, err := s.homepageRepo.FindBySectionName(sectionName, includeInactive)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHomepageSettingNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Homepage setting")
	}

	products, err := s.productRepo.FindByIDs(setting.ProductIDs)
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	byID := make(map[uint]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	resp := dto.NewHomepageSettingResponse(setting)
	resp.Products = make([]dto.ProductResponse, 0, len(setting.ProductIDs))
	for _, id := range setting.ProductIDs {
		if p, ok := byID[id]; ok {
			resp.Products = append(resp.Products, dto.NewProductResponse(p))
		}
	}
	return &resp, nil
}

func applyHomepageInput(setting *model.HomepageSetting, input HomepageSettingInput) {
	setting.SectionName = input.SectionName
	setting.SectionTitle = input.SectionTitle
	setting.SectionDescription = input.SectionDescription
	setting.SectionPosition = input.SectionPosition
	setting.SectionImages = input.SectionImages
	setting.ProductIDs = input.ProductIDs
	if input.IsActive != nil {
		setting.IsActive = *input.IsActive
	}
}

func (s *homepageService) Create(input HomepageSettingInput) (*dto.HomepageSettingResponse, error) {
	setting := &model.HomepageSetting{IsActive: true}
	applyHomepageInput(setting, input)
	if err := s.homepageRepo.Create(setting); err != nil {
		return nil, apperrors.FromDB(err, "Homepage setting")
	}
	logger.Info("Homepage section created", map[string]interface{}{
		"homepage_setting_id": setting.ID,
		"section_name":        setting.SectionName,
	})
	resp := dto.NewHomepageSettingResponse(setting)
	return &resp, nil
}

func (s *homepageService) Update(id uint, input HomepageSettingInput) (*dto.HomepageSettingResponse, error) {
	setting, err := s.homepageRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHomepageSettingNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Homepage setting")
	}
	applyHomepageInput(setting, input)
	if err := s.homepageRepo.Update(setting); err != nil {
		return nil, apperrors.FromDB(err, "Homepage setting")
	}
	resp := dto.NewHomepageSettingResponse(setting)
	return &resp, nil
}

func (s *homepageService) Delete(id uint) error {
	found, err := s.homepageRepo.Delete(id)
	if err != nil {
		return apperrors.FromDB(err, "Homepage setting")
	}
	if !found {
		return ErrHomepageSettingNotFound
	}
	return nil
}
