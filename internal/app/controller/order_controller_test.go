package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderControllerTest(t *testing.T) *testEnv {
	env := setupControllerTest(t)

	orderService := service.NewOrderService(
		env.db,
		repository.NewOrderRepository(env.db),
		repository.NewProductRepository(env.db),
		repository.NewDeliveryOptionRepository(env.db),
		nil,
		5,
	)
	ctrl := NewOrderController(orderService)
	staff := env.auth.Require(middleware.AdminStaff)

	orders := env.router.Group("/orders")
	orders.POST("", env.auth.OptionalAuthenticate(), ctrl.Create)
	orders.GET("/reference/:reference", ctrl.GetByReference)
	orders.GET("", staff, ctrl.List)
	orders.GET("/:id", staff, ctrl.Get)
	orders.PATCH("/:id/status", staff, ctrl.UpdateStatus)
	orders.DELETE("/:id", staff, ctrl.Delete)
	return env
}

func orderBody(productID uint, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"customer_name":    "Ada Lovelace",
		"customer_email":   "ada@example.com",
		"shipping_address": "12 Analytical St",
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": quantity},
		},
	}
}

func TestOrderController_CreateGuestOrder(t *testing.T) {
	env := setupOrderControllerTest(t)
	pt := seedProductType(t, env.db, "Rings")
	p := seedProduct(t, env.db, pt.ID, "Ring", "29.99", 10)

	w := env.do(t, http.MethodPost, "/orders", orderBody(p.ID, 2), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "59.98", data["total_price"])
	assert.Equal(t, float64(2), data["quantity"])
	assert.Equal(t, "pending", data["status"])
	assert.Nil(t, data["user_id"])
	reference := data["reference"].(string)
	assert.Regexp(t, `^ORD-\d{8}-[A-Z0-9]{8}$`, reference)

	var stock int
	require.NoError(t, env.db.Model(&model.Product{}).Select("stock").Where("id = ?", p.ID).Scan(&stock).Error)
	assert.Equal(t, 8, stock)

	w = env.do(t, http.MethodGet, "/orders/reference/"+reference, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reference, decodeBody(t, w)["data"].(map[string]interface{})["reference"])
}

func TestOrderController_CreateLinksCustomer(t *testing.T) {
	env := setupOrderControllerTest(t)
	pt := seedProductType(t, env.db, "Rings")
	p := seedProduct(t, env.db, pt.ID, "Ring", "10.00", 10)

	customer := &model.Customer{Name: "Ada", Email: "ada@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, env.db.Create(customer).Error)

	token := tokenFor(t, customer.ID, "customer", util.UserTypeCustomer)
	w := env.do(t, http.MethodPost, "/orders", orderBody(p.ID, 1), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(customer.ID), decodeBody(t, w)["data"].(map[string]interface{})["user_id"])
}

func TestOrderController_Create_Rejects(t *testing.T) {
	env := setupOrderControllerTest(t)
	pt := seedProductType(t, env.db, "Rings")
	p := seedProduct(t, env.db, pt.ID, "Ring", "10.00", 1)

	tests := []struct {
		name     string
		body     map[string]interface{}
		expected int
	}{
		{"Insufficient stock", orderBody(p.ID, 5), http.StatusBadRequest},
		{"Unknown product", orderBody(9999, 1), http.StatusBadRequest},
		{"No items", map[string]interface{}{"customer_name": "A", "customer_email": "a@example.com", "shipping_address": "x", "items": []interface{}{}}, http.StatusBadRequest},
		{"Bad email", map[string]interface{}{"customer_name": "A", "customer_email": "nope", "shipping_address": "x", "items": []map[string]interface{}{{"product_id": p.ID, "quantity": 1}}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/orders", tt.body, "")
			assert.Equal(t, tt.expected, w.Code, w.Body.String())
			assert.Equal(t, false, decodeBody(t, w)["success"])
		})
	}

	var stock int
	require.NoError(t, env.db.Model(&model.Product{}).Select("stock").Where("id = ?", p.ID).Scan(&stock).Error)
	assert.Equal(t, 1, stock)
}

func TestOrderController_StatusLifecycle(t *testing.T) {
	env := setupOrderControllerTest(t)
	pt := seedProductType(t, env.db, "Rings")
	p := seedProduct(t, env.db, pt.ID, "Ring", "10.00", 5)

	w := env.do(t, http.MethodPost, "/orders", orderBody(p.ID, 3), "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["data"].(map[string]interface{})["id"].(float64)
	statusPath := fmt.Sprintf("/orders/%s/status", formatID(id))

	w = env.do(t, http.MethodPatch, statusPath, map[string]string{"status": "shipped_by_owl"}, adminToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, statusPath, map[string]string{"status": "cancelled"}, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", decodeBody(t, w)["data"].(map[string]interface{})["status"])

	var stock int
	require.NoError(t, env.db.Model(&model.Product{}).Select("stock").Where("id = ?", p.ID).Scan(&stock).Error)
	assert.Equal(t, 5, stock)

	w = env.do(t, http.MethodPatch, statusPath, map[string]string{"status": "pending"}, adminToken(t))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/orders?status=cancelled", nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["pagination"].(map[string]interface{})["total"])

	w = env.do(t, http.MethodDelete, "/orders/"+formatID(id), nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/orders/"+formatID(id), nil, adminToken(t))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
