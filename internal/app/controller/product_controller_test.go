package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductControllerTest(t *testing.T) *testEnv {
	env := setupControllerTest(t)

	productRepo := repository.NewProductRepository(env.db)
	productTypeRepo := repository.NewProductTypeRepository(env.db)
	pricingRepo := repository.NewPricingConfigRepository(env.db)

	productService := service.NewProductService(env.db, productRepo, productTypeRepo, pricingRepo, nil, nil,
		service.ProductServiceConfig{LowStockThreshold: 5})
	productTypeService := service.NewProductTypeService(env.db, productTypeRepo, productRepo)

	products := NewProductController(productService)
	types := NewProductTypeController(productTypeService)
	staff := env.auth.Require(middleware.AdminStaff)

	pt := env.router.Group("/product-types")
	pt.GET("", types.List)
	pt.GET("/:id", types.Get)
	pt.POST("", staff, types.Create)
	pt.PUT("/:id", staff, types.Update)
	pt.DELETE("/:id", staff, types.Delete)

	p := env.router.Group("/products")
	p.GET("", products.List)
	p.GET("/featured", products.Featured)
	p.GET("/search", products.Search)
	p.GET("/type/:typeId", products.ByType)
	p.GET("/low-stock", staff, products.LowStock)
	p.GET("/stats", staff, products.Stats)
	p.POST("/stock/bulk-update", staff, products.BulkUpdateStock)
	p.GET("/:id", products.Get)
	p.GET("/:id/similar", products.Similar)
	p.GET("/:id/availability", products.Availability)
	p.POST("", staff, products.Create)
	p.PUT("/:id", staff, products.Update)
	p.PATCH("/:id", staff, products.Patch)
	p.DELETE("/:id", staff, products.Delete)
	return env
}

func TestProductController_EmptyListPagination(t *testing.T) {
	env := setupProductControllerTest(t)

	w := env.do(t, http.MethodGet, "/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[],"pagination":{"page":1,"limit":20,"total":0,"pages":0}}`, w.Body.String())
}

func TestProductController_CreateAndGet(t *testing.T) {
	env := setupProductControllerTest(t)
	pt := seedProductType(t, env.db, "Rings")

	w := env.do(t, http.MethodPost, "/products", map[string]interface{}{
		"name":            "Silver Ring",
		"price":           "29.99",
		"stock":           12,
		"product_type_id": pt.ID,
		"images":          []string{"https://cdn.example.com/ring.jpg"},
	}, adminToken(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "29.99", data["price"])
	assert.Equal(t, "Rings", data["product_type_name"])

	w = env.do(t, http.MethodGet, "/products/"+formatID(data["id"].(float64)), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Silver Ring", decodeBody(t, w)["data"].(map[string]interface{})["name"])
}

func TestProductController_Create_Validation(t *testing.T) {
	env := setupProductControllerTest(t)
	pt := seedProductType(t, env.db, "Rings")

	tests := []struct {
		name    string
		body    map[string]interface{}
		message string
	}{
		{
			name:    "Missing price",
			body:    map[string]interface{}{"name": "A", "stock": 1, "product_type_id": pt.ID},
			message: "price is required",
		},
		{
			name:    "Zero price",
			body:    map[string]interface{}{"name": "A", "price": "0", "stock": 1, "product_type_id": pt.ID},
			message: "price must be greater than 0",
		},
		{
			name:    "Negative stock",
			body:    map[string]interface{}{"name": "A", "price": "1", "stock": -1, "product_type_id": pt.ID},
			message: "stock must be at least 0",
		},
		{
			name:    "Missing name",
			body:    map[string]interface{}{"price": "1", "stock": 1, "product_type_id": pt.ID},
			message: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/products", tt.body, adminToken(t))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestProductController_Auth(t *testing.T) {
	env := setupProductControllerTest(t)

	w := env.do(t, http.MethodPost, "/products", map[string]interface{}{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])

	customer := tokenFor(t, 5, "customer", "customer")
	w = env.do(t, http.MethodGet, "/products/stats", nil, customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductController_InvalidAndMissingID(t *testing.T) {
	env := setupProductControllerTest(t)

	w := env.do(t, http.MethodGet, "/products/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid product ID", decodeBody(t, w)["message"])

	w = env.do(t, http.MethodGet, "/products/404", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decodeBody(t, w)["message"])
}

func TestProductController_DeleteTypeCascades(t *testing.T) {
	env := setupProductControllerTest(t)
	pt := seedProductType(t, env.db, "Necklaces")
	p := seedProduct(t, env.db, pt.ID, "Chain", "50.00", 3)

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/product-types/%d", pt.ID), nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, fmt.Sprintf("/products/%d", p.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/product-types/%d", pt.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_ListFiltersAndSearch(t *testing.T) {
	env := setupProductControllerTest(t)
	rings := seedProductType(t, env.db, "Rings")
	chains := seedProductType(t, env.db, "Chains")
	seedProduct(t, env.db, rings.ID, "Gold Ring", "120.00", 2)
	seedProduct(t, env.db, rings.ID, "Silver Ring", "30.00", 0)
	seedProduct(t, env.db, chains.ID, "Gold Chain", "80.00", 4)

	tests := []struct {
		name  string
		query string
		total float64
	}{
		{"All", "", 3},
		{"By type", fmt.Sprintf("?product_type_id=%d", rings.ID), 2},
		{"Price window", "?min_price=50&max_price=100", 1},
		{"In stock", "?in_stock=true", 2},
		{"Search", "?search=gold", 2},
		{"Second page", "?page=2&limit=2", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/products"+tt.query, nil, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			pagination := decodeBody(t, w)["pagination"].(map[string]interface{})
			assert.Equal(t, tt.total, pagination["total"])
		})
	}

	w := env.do(t, http.MethodGet, "/products/search?q=chain", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 1)

	w = env.do(t, http.MethodGet, "/products/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/products?sort_by=colour", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_BulkStockAndAvailability(t *testing.T) {
	env := setupProductControllerTest(t)
	pt := seedProductType(t, env.db, "Rings")
	p := seedProduct(t, env.db, pt.ID, "Ring", "10.00", 1)

	w := env.do(t, http.MethodPost, "/products/stock/bulk-update", map[string]interface{}{
		"updates": []map[string]interface{}{
			{"product_id": p.ID, "stock": 25},
			{"product_id": 9999, "stock": 3},
		},
	}, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	results := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, true, results[0].(map[string]interface{})["updated"])
	assert.Equal(t, "Product not found", results[1].(map[string]interface{})["error"])

	w = env.do(t, http.MethodGet, fmt.Sprintf("/products/%d/availability?quantity=20", p.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["data"].(map[string]interface{})["available"])

	w = env.do(t, http.MethodGet, fmt.Sprintf("/products/%d/availability?quantity=26", p.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["data"].(map[string]interface{})["available"])
}

func TestProductController_PatchAndDelete(t *testing.T) {
	env := setupProductControllerTest(t)
	pt := seedProductType(t, env.db, "Rings")
	p := seedProduct(t, env.db, pt.ID, "Ring", "10.00", 1)
	path := fmt.Sprintf("/products/%d", p.ID)

	w := env.do(t, http.MethodPatch, path, map[string]interface{}{"price": "12.50", "is_featured": true}, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "12.50", data["price"])
	assert.Equal(t, "Ring", data["name"])

	w = env.do(t, http.MethodGet, "/products/featured", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 1)

	w = env.do(t, http.MethodDelete, path, nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
