package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"gorm.io/gorm"
)

type DeliveryOptionRepository interface {
	WithTx(tx *gorm.DB) DeliveryOptionRepository
	Create(option *model.DeliveryOption) error
	FindByID(id uint) (*model.DeliveryOption, error)
	FindAll(activeOnly bool) ([]model.DeliveryOption, error)
	Update(option *model.DeliveryOption) error
	Delete(id uint) (bool, error)
}

type deliveryOptionRepository struct {
	db *gorm.DB
}

func NewDeliveryOptionRepository(db *gorm.DB) DeliveryOptionRepository {
	return &deliveryOptionRepository{db: db}
}

func (r *deliveryOptionRepository) WithTx(tx *gorm.DB) DeliveryOptionRepository {
	return &deliveryOptionRepository{db: tx}
}

func (r *deliveryOptionRepository) Create(option *model.DeliveryOption) error {
	return r.db.Create(option).Error
}

func (r *deliveryOptionRepository) FindByID(id uint) (*model.DeliveryOption, error) {
	var option model.DeliveryOption
	if err := r.db.Scopes(notDeleted).First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *deliveryOptionRepository) FindAll(activeOnly bool) ([]model.DeliveryOption, error) {
	query := r.db.Scopes(notDeleted)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var options []model.DeliveryOption
	err := query.Order("price ASC, estimated_days ASC, id ASC").Find(&options).Error
	return options, err
}

func (r *deliveryOptionRepository) Update(option *model.DeliveryOption) error {
	return r.db.Save(option).Error
}

func (r *deliveryOptionRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.DeliveryOption{}, "id = ?", id)
	return affected > 0, err
}
