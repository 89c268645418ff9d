package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductTypeRepository interface {
	WithTx(tx *gorm.DB) ProductTypeRepository
	Create(productType *model.ProductType) error
	FindByID(id uint) (*model.ProductType, error)
	FindByName(name string) (*model.ProductType, error)
	FindAll() ([]model.ProductType, error)
	Update(productType *model.ProductType) error
	Delete(id uint) (bool, error)
}

type productTypeRepository struct {
	db *gorm.DB
}

func NewProductTypeRepository(db *gorm.DB) ProductTypeRepository {
	return &productTypeRepository{db: db}
}

func (r *productTypeRepository) WithTx(tx *gorm.DB) ProductTypeRepository {
	return &productTypeRepository{db: tx}
}

func (r *productTypeRepository) Create(productType *model.ProductType) error {
	logger.Debug("Creating product type in database", map[string]interface{}{
		"name": productType.Name,
	})
	if err := r.db.Create(productType).Error; err != nil {
		logger.Error("Failed to create product type in database", err, map[string]interface{}{
			"name": productType.Name,
		})
		return err
	}
	return nil
}

func (r *productTypeRepository) FindByID(id uint) (*model.ProductType, error) {
	var productType model.ProductType
	if err := r.db.Scopes(notDeleted).First(&productType, id).Error; err != nil {
		return nil, err
	}
	return &productType, nil
}

func (r *productTypeRepository) FindByName(name string) (*model.ProductType, error) {
	var productType model.ProductType
	if err := r.db.Scopes(notDeleted).Where("name = ?", name).First(&productType).Error; err != nil {
		return nil, err
	}
	return &productType, nil
}

func (r *productTypeRepository) FindAll() ([]model.ProductType, error) {
	var productTypes []model.ProductType
	if err := r.db.Scopes(notDeleted).Order("name ASC").Find(&productTypes).Error; err != nil {
		logger.Error("Failed to list product types", err)
		return nil, err
	}
	return productTypes, nil
}

func (r *productTypeRepository) Update(productType *model.ProductType) error {
	return r.db.Save(productType).Error
}

func (r *productTypeRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.ProductType{}, "id = ?", id)
	if err != nil {
		logger.Error("Failed to delete product type", err, map[string]interface{}{
			"product_type_id": id,
		})
		return false, err
	}
	return affected > 0, nil
}
