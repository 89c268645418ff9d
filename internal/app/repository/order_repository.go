package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status        *model.OrderStatus
	UserID        *uint
	CustomerEmail string
	Page          Page
}

type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByReference(reference string) (*model.Order, error)
	List(filter OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(id uint, from, to model.OrderStatus) (bool, error)
	Delete(id uint) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

// Create inserts the order and then its items. Callers run it inside a transaction.
func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"reference":   order.Reference,
		"items_count": len(order.Items),
	})

	items := order.Items
	if err := r.db.Omit(clause.Associations).Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"reference": order.Reference,
		})
		return err
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Omit(clause.Associations).Create(&items).Error; err != nil {
			logger.Error("Failed to create order items in database", err, map[string]interface{}{
				"order_id": order.ID,
			})
			return err
		}
	}
	order.Items = items

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":  order.ID,
		"reference": order.Reference,
	})
	return nil
}

func (r *orderRepository) withDetails() *gorm.DB {
	return r.db.
		Preload("Items", "is_deleted = ?", false).
		Preload("Items.Product").
		Preload("DeliveryOption")
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.withDetails().Scopes(notDeleted).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByReference(reference string) (*model.Order, error) {
	var order model.Order
	if err := r.withDetails().Scopes(notDeleted).Where("reference = ?", reference).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) filtered(filter OrderFilter) *gorm.DB {
	query := r.db.Model(&model.Order{}).Where("is_deleted = ?", false)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.CustomerEmail != "" {
		query = query.Where("customer_email = ?", filter.CustomerEmail)
	}
	return query
}

func (r *orderRepository) List(filter OrderFilter) ([]model.Order, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders", err)
		return nil, 0, err
	}

	var orders []model.Order
	err := r.filtered(filter).
		Preload("Items", "is_deleted = ?", false).
		Preload("Items.Product").
		Preload("DeliveryOption").
		Order("created_at DESC, id DESC").
		Scopes(paginate(filter.Page)).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders", err)
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus moves the order from one status to another. It reports false when the
// order is missing or no longer in status from, so concurrent changes apply only once.
func (r *orderRepository) UpdateStatus(id uint, from, to model.OrderStatus) (bool, error) {
	logger.Debug("Updating order status", map[string]interface{}{
		"order_id": id,
		"from":     from,
		"to":       to,
	})
	result := r.db.Model(&model.Order{}).
		Where("id = ? AND status = ? AND is_deleted = ?", id, from, false).
		Update("status", to)
	if result.Error != nil {
		logger.Error("Failed to update order status", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete soft-deletes the order together with its items.
func (r *orderRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.Order{}, "id = ?", id)
	if err != nil || affected == 0 {
		return false, err
	}
	if _, err := softDelete(r.db, &model.OrderItem{}, "order_id = ?", id); err != nil {
		return false, err
	}
	return true, nil
}
