package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PricingConfigRepository interface {
	WithTx(tx *gorm.DB) PricingConfigRepository
	Create(cfg *model.PricingConfig) error
	FindByID(id uint) (*model.PricingConfig, error)
	FindAll() ([]model.PricingConfig, error)
	// FindForProductType returns the newest live config for the type, or the global one when productTypeID is nil.
	FindForProductType(productTypeID *uint) (*model.PricingConfig, error)
	Update(cfg *model.PricingConfig) error
	Delete(id uint) (bool, error)
}

type pricingConfigRepository struct {
	db *gorm.DB
}

func NewPricingConfigRepository(db *gorm.DB) PricingConfigRepository {
	return &pricingConfigRepository{db: db}
}

func (r *pricingConfigRepository) WithTx(tx *gorm.DB) PricingConfigRepository {
	return &pricingConfigRepository{db: tx}
}

func (r *pricingConfigRepository) Create(cfg *model.PricingConfig) error {
	if err := r.db.Omit(clause.Associations).Create(cfg).Error; err != nil {
		logger.Error("Failed to create pricing config", err, map[string]interface{}{
			"product_type_id": cfg.ProductTypeID,
		})
		return err
	}
	return nil
}

func (r *pricingConfigRepository) FindByID(id uint) (*model.PricingConfig, error) {
	var cfg model.PricingConfig
	if err := r.db.Scopes(notDeleted).Preload("ProductType").First(&cfg, id).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *pricingConfigRepository) FindAll() ([]model.PricingConfig, error) {
	var configs []model.PricingConfig
	if err := r.db.Scopes(notDeleted).Preload("ProductType").Order("id ASC").Find(&configs).Error; err != nil {
		logger.Error("Failed to list pricing configs", err)
		return nil, err
	}
	return configs, nil
}

func (r *pricingConfigRepository) FindForProductType(productTypeID *uint) (*model.PricingConfig, error) {
	query := r.db.Scopes(notDeleted).Preload("ProductType")
	if productTypeID == nil {
		query = query.Where("product_type_id IS NULL")
	} else {
		query = query.Where("product_type_id = ?", *productTypeID)
	}

	var cfg model.PricingConfig
	if err := query.Order("updated_at DESC, id DESC").First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *pricingConfigRepository) Update(cfg *model.PricingConfig) error {
	return r.db.Omit(clause.Associations).Save(cfg).Error
}

func (r *pricingConfigRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.PricingConfig{}, "id = ?", id)
	return affected > 0, err
}
