package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerFilter struct {
	Search string
	Page   Page
}

type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	Create(customer *model.Customer) error
	FindByID(id uint) (*model.Customer, error)
	FindByEmail(email string) (*model.Customer, error)
	List(filter CustomerFilter) ([]model.Customer, int64, error)
	Update(customer *model.Customer) error
	Delete(id uint) (bool, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepository{db: tx}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	if err := r.db.Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, map[string]interface{}{
			"email": customer.Email,
		})
		return err
	}
	logger.Debug("Customer created in database", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return nil
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Scopes(notDeleted).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByEmail(email string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Scopes(notDeleted).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) filtered(filter CustomerFilter) *gorm.DB {
	query := r.db.Model(&model.Customer{}).Where("is_deleted = ?", false)
	if filter.Search != "" {
		query = query.Scopes(searchColumns(filter.Search, "name", "email"))
	}
	return query
}

func (r *customerRepository) List(filter CustomerFilter) ([]model.Customer, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count customers", err)
		return nil, 0, err
	}

	var customers []model.Customer
	if err := r.filtered(filter).Scopes(paginate(filter.Page)).Order("created_at DESC, id DESC").Find(&customers).Error; err != nil {
		logger.Error("Failed to list customers", err)
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *customerRepository) Update(customer *model.Customer) error {
	if err := r.db.Save(customer).Error; err != nil {
		logger.Error("Failed to update customer in database", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return err
	}
	return nil
}

func (r *customerRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.Customer{}, "id = ?", id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
