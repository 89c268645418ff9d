package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/websocket"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = apperrors.NotFound("Order")
	ErrOrderStatusInvalid = apperrors.Validation("status must be one of [pending confirmed processing shipped delivered cancelled]")
)

type OrderItemInput struct {
	ProductID uint                   `json:"product_id" binding:"required,min=1"`
	Quantity  int                    `json:"quantity" binding:"required,min=1,max=1000"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type CreateOrderInput struct {
	CustomerName     string           `json:"customer_name" binding:"required,min=1,max=100"`
	CustomerEmail    string           `json:"customer_email" binding:"required,email,max=255"`
	CustomerPhone    string           `json:"customer_phone" binding:"omitempty,max=30"`
	ShippingAddress  string           `json:"shipping_address" binding:"required,min=1,max=1000"`
	DeliveryOptionID *uint            `json:"delivery_option_id" binding:"omitempty,min=1"`
	Notes            string           `json:"notes" binding:"omitempty,max=2000"`
	Items            []OrderItemInput `json:"items" binding:"required,min=1,max=50,dive"`
}

type UpdateOrderStatusInput struct {
	Status model.OrderStatus `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled"`
}

type OrderListQuery struct {
	PageQuery
	Status        string `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	CustomerEmail string `form:"customer_email" binding:"omitempty,email"`
}

type OrderService interface {
	// Create places an order; customerID is nil for guest checkouts.
	Create(input CreateOrderInput, customerID *uint) (*dto.OrderResponse, error)
	Get(id uint) (*dto.OrderResponse, error)
	GetByReference(reference string) (*dto.OrderResponse, error)
	List(query OrderListQuery) ([]dto.OrderResponse, dto.Pagination, error)
	ListForCustomer(customerID uint, query PageQuery) ([]dto.OrderResponse, dto.Pagination, error)
	UpdateStatus(id uint, status model.OrderStatus) (*dto.OrderResponse, error)
	Delete(id uint) error
}

type orderService struct {
	db                *gorm.DB
	orderRepo         repository.OrderRepository
	productRepo       repository.ProductRepository
	deliveryRepo      repository.DeliveryOptionRepository
	events            EventPublisher
	lowStockThreshold int
	now               func() time.Time
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	deliveryRepo repository.DeliveryOptionRepository,
	events EventPublisher,
	lowStockThreshold int,
) OrderService {
	return &orderService{
		db:                db,
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		deliveryRepo:      deliveryRepo,
		events:            publisherOrNoop(events),
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

type stockLevel struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

func (s *orderService) Create(input CreateOrderInput, customerID *uint) (*dto.OrderResponse, error) {
	seen := make(map[uint]bool, len(input.Items))
	for _, in := range input.Items {
		if seen[in.ProductID] {
			return nil, apperrors.Validation("items must not contain the same product twice")
		}
		seen[in.ProductID] = true
	}

	order := &model.Order{
		UserID:           customerID,
		CustomerName:     input.CustomerName,
		CustomerEmail:    strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone:    input.CustomerPhone,
		ShippingAddress:  input.ShippingAddress,
		DeliveryOptionID: input.DeliveryOptionID,
		DeliveryPrice:    decimal.Zero,
		Status:           model.OrderStatusPending,
		Reference:        util.GenerateOrderReference(s.now()),
		Notes:            input.Notes,
	}
	var lowStock []stockLevel

	err := s.db.Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		if input.DeliveryOptionID != nil {
			option, err := s.deliveryRepo.WithTx(tx).FindByID(*input.DeliveryOptionID)
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !option.IsActive) {
				return apperrors.Validation("delivery_option_id does not reference an active delivery option")
			}
			if err != nil {
				return err
			}
			order.DeliveryPrice = option.Price
		}

		subtotal := decimal.Zero
		for _, in := range input.Items {
			product, err := products.FindByID(in.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation(fmt.Sprintf("product %d does not exist", in.ProductID))
			}
			if err != nil {
				return err
			}
			if !product.IsActive {
				return apperrors.Validation(fmt.Sprintf("product %d is not available", in.ProductID))
			}

			taken, err := products.DecrementStock(product.ID, in.Quantity)
			if err != nil {
				return err
			}
			if !taken {
				return apperrors.Validation(fmt.Sprintf("insufficient stock for product %d", in.ProductID))
			}

			order.Items = append(order.Items, model.OrderItem{
				ProductID: product.ID,
				Quantity:  in.Quantity,
				Price:     product.Price,
				Metadata:  in.Metadata,
			})
			order.Quantity += in.Quantity
			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(in.Quantity))))

			if remaining := product.Stock - in.Quantity; remaining <= s.lowStockThreshold {
				lowStock = append(lowStock, stockLevel{ProductID: product.ID, Name: product.Name, Stock: remaining})
			}
		}
		order.TotalPrice = subtotal.Add(order.DeliveryPrice).Round(2)

		return s.orderRepo.WithTx(tx).Create(order)
	})
	if err != nil {
		logger.Warn("Order creation failed", map[string]interface{}{
			"reference": order.Reference,
			"error":     err.Error(),
		})
		return nil, apperrors.FromDB(err, "Order")
	}

	created, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, apperrors.FromDB(err, "Order")
	}
	resp := dto.NewOrderResponse(created)

	logger.Info("Order created", map[string]interface{}{
		"order_id":    created.ID,
		"reference":   created.Reference,
		"total_price": dto.Money(created.TotalPrice),
		"guest":       customerID == nil,
	})
	s.events.Publish(websocket.EventOrderCreated, resp)
	for _, level := range lowStock {
		s.events.Publish(websocket.EventProductLowStock, map[string]interface{}{
			"product_id": level.ProductID,
			"name":       level.Name,
			"stock":      level.Stock,
			"threshold":  s.lowStockThreshold,
		})
	}
	return &resp, nil
}

func (s *orderService) find(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Order")
	}
	return order, nil
}

func (s *orderService) Get(id uint) (*dto.OrderResponse, error) {
	order, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

func (s *orderService) GetByReference(reference string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByReference(strings.ToUpper(strings.TrimSpace(reference)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Order")
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

func (s *orderService) list(filter repository.OrderFilter) ([]dto.OrderResponse, dto.Pagination, error) {
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, dto.Pagination{}, apperrors.FromDB(err, "Order")
	}
	return dto.NewOrderResponses(orders), pagination(filter.Page, total), nil
}

func (s *orderService) List(query OrderListQuery) ([]dto.OrderResponse, dto.Pagination, error) {
	filter := repository.OrderFilter{
		CustomerEmail: strings.ToLower(query.CustomerEmail),
		Page:          query.Normalize(),
	}
	if query.Status != "" {
		status := model.OrderStatus(query.Status)
		filter.Status = &status
	}
	return s.list(filter)
}

func (s *orderService) ListForCustomer(customerID uint, query PageQuery) ([]dto.OrderResponse, dto.Pagination, error) {
	return s.list(repository.OrderFilter{UserID: &customerID, Page: query.Normalize()})
}

func validStatus(status model.OrderStatus) bool {
	for _, s := range model.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// UpdateStatus moves the order to status. Delivered and cancelled orders are final,
// and cancelling returns the items to stock.
func (s *orderService) UpdateStatus(id uint, status model.OrderStatus) (*dto.OrderResponse, error) {
	if !validStatus(status) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.find(id)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if previous == status {
		resp := dto.NewOrderResponse(order)
		return &resp, nil
	}
	if previous == model.OrderStatusDelivered || previous == model.OrderStatusCancelled {
		return nil, apperrors.Conflict(fmt.Sprintf("Order is already %s", previous))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		changed, err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, previous, status)
		if err != nil {
			return err
		}
		if !changed {
			return apperrors.Conflict("Order status was changed by another request")
		}
		if status != model.OrderStatusCancelled {
			return nil
		}
		products := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			if err := products.IncrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Order")
	}

	updated, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(updated)

	logger.Info("Order status changed", map[string]interface{}{
		"order_id": updated.ID,
		"from":     previous,
		"to":       status,
	})
	s.events.Publish(websocket.EventOrderStatusChanged, map[string]interface{}{
		"order_id":        updated.ID,
		"reference":       updated.Reference,
		"previous_status": previous,
		"status":          updated.Status,
	})
	return &resp, nil
}

func (s *orderService) Delete(id uint) error {
	var found bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		found, err = s.orderRepo.WithTx(tx).Delete(id)
		return err
	})
	if err != nil {
		return apperrors.FromDB(err, "Order")
	}
	if !found {
		return ErrOrderNotFound
	}
	logger.Info("Order deleted", map[string]interface{}{
		"order_id": id,
	})
	return nil
}
