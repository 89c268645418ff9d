package service

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	svc       OrderService
	db        *gorm.DB
	publisher *recordingPublisher
	shirt     *model.Product
	mug       *model.Product
	courier   *model.DeliveryOption
}

func setupOrderServiceTest(t *testing.T) orderServiceFixture {
	testDB := setupTestDB(t)
	publisher := &recordingPublisher{}
	svc := NewOrderService(
		testDB,
		repository.NewOrderRepository(testDB),
		repository.NewProductRepository(testDB),
		repository.NewDeliveryOptionRepository(testDB),
		publisher,
		5,
	)

	pt := seedProductType(t, testDB, "Merch")
	courier := &model.DeliveryOption{Name: "Courier", Price: decimal.RequireFromString("5.00"), EstimatedDays: 2, IsActive: true}
	require.NoError(t, testDB.Create(courier).Error)

	return orderServiceFixture{
		svc:       svc,
		db:        testDB,
		publisher: publisher,
		shirt:     seedProduct(t, testDB, pt.ID, "Shirt", "29.99", 10),
		mug:       seedProduct(t, testDB, pt.ID, "Mug", "19.99", 1),
		courier:   courier,
	}
}

func (f orderServiceFixture) stock(t *testing.T, id uint) int {
	var p model.Product
	require.NoError(t, f.db.First(&p, id).Error)
	return p.Stock
}

func orderInput(items ...OrderItemInput) CreateOrderInput {
	return CreateOrderInput{
		CustomerName:    "Grace",
		CustomerEmail:   "Grace@Example.com",
		ShippingAddress: "1 Main St",
		Items:           items,
	}
}

func TestOrderService_Create(t *testing.T) {
	f := setupOrderServiceTest(t)
	input := orderInput(
		OrderItemInput{ProductID: f.shirt.ID, Quantity: 2, Metadata: map[string]interface{}{"size": "L"}},
		OrderItemInput{ProductID: f.mug.ID, Quantity: 1},
	)
	input.DeliveryOptionID = &f.courier.ID

	order, err := f.svc.Create(input, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.Reference, "ORD-"))
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 3, order.Quantity)
	assert.Equal(t, "5.00", order.DeliveryPrice)
	assert.Equal(t, "84.97", order.TotalPrice)
	assert.Equal(t, "grace@example.com", order.CustomerEmail)
	assert.Nil(t, order.UserID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "59.98", order.Items[0].Subtotal)
	assert.Equal(t, "L", order.Items[0].Metadata["size"])

	assert.Equal(t, 8, f.stock(t, f.shirt.ID))
	assert.Equal(t, 0, f.stock(t, f.mug.ID))
	assert.Equal(t, 1, f.publisher.count(websocket.EventOrderCreated))
	assert.Equal(t, 1, f.publisher.count(websocket.EventProductLowStock))

	byRef, err := f.svc.GetByReference(strings.ToLower(order.Reference))
	require.NoError(t, err)
	assert.Equal(t, order.ID, byRef.ID)
}

func TestOrderService_CreateRollsBackOnInsufficientStock(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.svc.Create(orderInput(
		OrderItemInput{ProductID: f.shirt.ID, Quantity: 3},
		OrderItemInput{ProductID: f.mug.ID, Quantity: 2},
	), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	assert.Equal(t, 10, f.stock(t, f.shirt.ID))
	assert.Equal(t, int64(0), countLive(t, f.db, "orders", ""))
	assert.Zero(t, f.publisher.count(websocket.EventOrderCreated))
}

func TestOrderService_CreateValidation(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.svc.Create(orderInput(OrderItemInput{ProductID: 9999, Quantity: 1}), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	input := orderInput(OrderItemInput{ProductID: f.shirt.ID, Quantity: 1})
	input.DeliveryOptionID = uintPtr(9999)
	_, err = f.svc.Create(input, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", f.shirt.ID).Update("is_active", false).Error)
	_, err = f.svc.Create(orderInput(OrderItemInput{ProductID: f.shirt.ID, Quantity: 1}), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestOrderService_CancelRestoresStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	order, err := f.svc.Create(orderInput(OrderItemInput{ProductID: f.shirt.ID, Quantity: 4}), nil)
	require.NoError(t, err)
	assert.Equal(t, 6, f.stock(t, f.shirt.ID))

	confirmed, err := f.svc.UpdateStatus(order.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Equal(t, 6, f.stock(t, f.shirt.ID))

	cancelled, err := f.svc.UpdateStatus(order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, 10, f.stock(t, f.shirt.ID))
	assert.Equal(t, 2, f.publisher.count(websocket.EventOrderStatusChanged))

	_, err = f.svc.UpdateStatus(order.ID, model.OrderStatusShipped)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Equal(t, 10, f.stock(t, f.shirt.ID))

	_, err = f.svc.UpdateStatus(order.ID, model.OrderStatus("lost"))
	assert.ErrorIs(t, err, ErrOrderStatusInvalid)
	_, err = f.svc.UpdateStatus(9999, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ConcurrentCancelRestocksOnce(t *testing.T) {
	f := setupOrderServiceTest(t)
	order, err := f.svc.Create(orderInput(OrderItemInput{ProductID: f.shirt.ID, Quantity: 4}), nil)
	require.NoError(t, err)
	require.Equal(t, 6, f.stock(t, f.shirt.ID))

	// Slow down order reads so every request loads the order before any of them commits.
	require.NoError(t, f.db.Callback().Query().After("gorm:query").Register("test:slow_order_reads", func(db *gorm.DB) {
		if db.Statement.Table == "orders" {
			time.Sleep(20 * time.Millisecond)
		}
	}))

	const requests = 4
	var wg sync.WaitGroup
	errs := make([]error, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.UpdateStatus(order.ID, model.OrderStatusCancelled)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.True(t, apperrors.IsKind(err, apperrors.KindConflict), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 10, f.stock(t, f.shirt.ID))
	assert.Equal(t, 1, f.publisher.count(websocket.EventOrderStatusChanged))
}

func TestOrderRepository_UpdateStatusRequiresExpectedStatus(t *testing.T) {
	f := setupOrderServiceTest(t)
	order, err := f.svc.Create(orderInput(OrderItemInput{ProductID: f.mug.ID, Quantity: 1}), nil)
	require.NoError(t, err)

	repo := repository.NewOrderRepository(f.db)
	changed, err := repo.UpdateStatus(order.ID, model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.UpdateStatus(order.ID, model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.UpdateStatus(9999, model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestOrderService_CreateRejectsRepeatedProduct(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.svc.Create(orderInput(
		OrderItemInput{ProductID: f.shirt.ID, Quantity: 3},
		OrderItemInput{ProductID: f.shirt.ID, Quantity: 3},
	), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "same product twice")
	assert.Equal(t, 10, f.stock(t, f.shirt.ID))
	assert.Equal(t, 0, f.publisher.count(websocket.EventOrderCreated))
}

func TestOrderService_ListAndDelete(t *testing.T) {
	f := setupOrderServiceTest(t)
	customerID := uint(7)

	mine, err := f.svc.Create(orderInput(OrderItemInput{ProductID: f.shirt.ID, Quantity: 1}), &customerID)
	require.NoError(t, err)
	_, err = f.svc.Create(orderInput(OrderItemInput{ProductID: f.shirt.ID, Quantity: 1}), nil)
	require.NoError(t, err)

	all, page, err := f.svc.List(OrderListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), page.Total)

	pending, _, err := f.svc.List(OrderListQuery{Status: "shipped"})
	require.NoError(t, err)
	assert.Empty(t, pending)

	own, _, err := f.svc.ListForCustomer(customerID, PageQuery{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	require.NoError(t, f.svc.Delete(mine.ID))
	_, err = f.svc.Get(mine.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, int64(0), countLive(t, f.db, "order_items", "order_id = ?", mine.ID))
	assert.ErrorIs(t, f.svc.Delete(mine.ID), ErrOrderNotFound)
}
