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

var ErrProductTypeNotFound = apperrors.NotFound("Product type")

type ProductTypeInput struct {
	Name         string   `json:"name" binding:"required,min=1,max=100"`
	Description  string   `json:"description" binding:"omitempty,max=2000"`
	AllowedTypes []string `json:"allowed_types" binding:"omitempty,unique,dive,required,max=100"`
}

type ProductTypeService interface {
	List() ([]dto.ProductTypeResponse, error)
	Get(id uint) (*dto.ProductTypeResponse, error)
	Create(input ProductTypeInput) (*dto.ProductTypeResponse, error)
	Update(id uint, input ProductTypeInput) (*dto.ProductTypeResponse, error)
	// Delete soft-deletes the type and every product of that type in one transaction.
	Delete(id uint) error
}

type productTypeService struct {
	db              *gorm.DB
	productTypeRepo repository.ProductTypeRepository
	productRepo     repository.ProductRepository
}

func NewProductTypeService(
	db *gorm.DB,
	productTypeRepo repository.ProductTypeRepository,
	productRepo repository.ProductRepository,
) ProductTypeService {
	return &productTypeService{
		db:              db,
		productTypeRepo: productTypeRepo,
		productRepo:     productRepo,
	}
}

func (s *productTypeService) List() ([]dto.ProductTypeResponse, error) {
	types, err := s.productTypeRepo.FindAll()
	if err != nil {
		return nil, apperrors.FromDB(err, "Product type")
	}
	return dto.NewProductTypeResponses(types), nil
}

func (s *productTypeService) find(id uint) (*model.ProductType, error) {
	pt, err := s.productTypeRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductTypeNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Product type")
	}
	return pt, nil
}

func (s *productTypeService) Get(id uint) (*dto.ProductTypeResponse, error) {
	pt, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductTypeResponse(pt)
	return &resp, nil
}

func (s *productTypeService) Create(input ProductTypeInput) (*dto.ProductTypeResponse, error) {
	pt := &model.ProductType{
		Name:         input.Name,
		Description:  input.Description,
		AllowedTypes: input.AllowedTypes,
	}
	if err := s.productTypeRepo.Create(pt); err != nil {
		return nil, apperrors.FromDB(err, "Product type")
	}
	logger.Info("Product type created", map[string]interface{}{
		"product_type_id": pt.ID,
		"name":            pt.Name,
	})
	resp := dto.NewProductTypeResponse(pt)
	return &resp, nil
}

func (s *productTypeService) Update(id uint, input ProductTypeInput) (*dto.ProductTypeResponse, error) {
	pt, err := s.find(id)
	if err != nil {
		return nil, err
	}
	pt.Name = input.Name
	pt.Description = input.Description
	pt.AllowedTypes = input.AllowedTypes

	if err := s.productTypeRepo.Update(pt); err != nil {
		return nil, apperrors.FromDB(err, "Product type")
	}
	resp := dto.NewProductTypeResponse(pt)
	return &resp, nil
}

func (s *productTypeService) Delete(id uint) error {
	var cascaded int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		found, err := s.productTypeRepo.WithTx(tx).Delete(id)
		if err != nil {
			return err
		}
		if !found {
			return ErrProductTypeNotFound
		}
		cascaded, err = s.productRepo.WithTx(tx).DeleteByProductType(id)
		return err
	})
	if err != nil {
		return apperrors.FromDB(err, "Product type")
	}

	logger.Info("Product type deleted", map[string]interface{}{
		"product_type_id":  id,
		"products_deleted": cascaded,
	})
	return nil
}
