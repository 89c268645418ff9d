package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/internal/db"
	"github.com/ikkim/shopadmin-backend/internal/storage"
	ws "github.com/ikkim/shopadmin-backend/internal/websocket"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
	ratelimit "github.com/ikkim/shopadmin-backend/pkg/redis"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	util.BcryptCost = bcrypt.MinCost
	gin.SetMode(gin.TestMode)
}

type capturingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *capturingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *capturingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type silentSMS struct{}

func (silentSMS) Send(context.Context, string, string) error { return nil }

type fakePresigner struct{}

func (fakePresigner) PresignUpload(_ context.Context, filename, _, folder string) (*storage.PresignedUpload, error) {
	key := folder + "/" + filename
	return &storage.PresignedUpload{
		UploadURL: "https://uploads.example.com/" + key + "?signature=x",
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

type denyingLimiter struct{}

func (denyingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{Allowed: false, Limit: 1, RetryAfter: 30 * time.Second}, nil
}

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	Mailer *capturingMailer
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode, Environment: "test"},
		JWT:    config.JWTConfig{Secret: "integration-secret", Expiry: time.Hour},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Admin: config.AdminConfig{
			Username: "root",
			Email:    "root@example.com",
			Password: "supersecret1",
		},
		Contact:  config.ContactConfig{Recipient: "owner@example.com"},
		LowStock: config.LowStockConfig{Threshold: 3},
	}
}

func setupIntegrationTest(t *testing.T, limiter ratelimit.Limiter) *TestServer {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := testConfig()
	created, err := db.EnsureSuperAdmin(testDB, cfg.Admin)
	require.NoError(t, err)
	require.True(t, created)

	mailer := &capturingMailer{}
	application := New(Dependencies{
		DB:      testDB,
		Config:  cfg,
		Mailer:  mailer,
		SMS:     silentSMS{},
		Hub:     ws.NewHub(),
		Storage: fakePresigner{},
		Limiter: limiter,
	})

	return &TestServer{Router: application.Engine, DB: testDB, Mailer: mailer}
}

func (ts *TestServer) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func dataID(t *testing.T, w *httptest.ResponseRecorder) uint {
	data, ok := decode(t, w)["data"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return uint(data["id"].(float64))
}

func (ts *TestServer) loginAdmin(t *testing.T) string {
	w := ts.request(t, http.MethodPost, "/api/users/login", map[string]string{
		"username": "root",
		"password": "supersecret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestCatalogueToOrderJourney(t *testing.T) {
	ts := setupIntegrationTest(t, nil)

	t.Log("Step 1: Super admin logs in")
	token := ts.loginAdmin(t)

	t.Log("Step 2: Build the catalogue")
	w := ts.request(t, http.MethodPost, "/api/product-types", map[string]interface{}{"name": "Rings"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	typeID := dataID(t, w)

	w = ts.request(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Gold Ring", "price": "29.99", "stock": 5, "product_type_id": typeID, "is_active": true,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ringID := dataID(t, w)

	w = ts.request(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Silver Band", "price": "19.99", "stock": 5, "product_type_id": typeID, "is_active": true,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bandID := dataID(t, w)

	t.Log("Step 3: Bundle the products and price the bundle")
	w = ts.request(t, http.MethodPost, "/api/bundles", map[string]interface{}{
		"name":                "Wedding Set",
		"discount_percentage": "10.5",
		"products": []map[string]interface{}{
			{"product_id": ringID, "quantity": 2},
			{"product_id": bandID, "quantity": 1},
		},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bundleID := dataID(t, w)

	w = ts.request(t, http.MethodGet, fmt.Sprintf("/api/bundles/%d/price", bundleID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	price := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "79.97", price["original_price"])
	assert.Equal(t, "8.40", price["discount_amount"])
	assert.Equal(t, "71.57", price["final_price"])

	t.Log("Step 4: Guest places an order")
	w = ts.request(t, http.MethodPost, "/api/orders", map[string]interface{}{
		"customer_name":    "Grace Hopper",
		"customer_email":   "grace@example.com",
		"shipping_address": "1 Harbor Way",
		"items":            []map[string]interface{}{{"product_id": ringID, "quantity": 3}},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "89.97", order["total_price"])

	w = ts.request(t, http.MethodGet, fmt.Sprintf("/api/products/%d/availability?quantity=3", ringID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	availability := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, availability["available"])

	t.Log("Step 5: Staff advances the order")
	w = ts.request(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", uint(order["id"].(float64))),
		map[string]string{"status": "confirmed"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Log("Step 6: Deleting the type hides its products")
	w = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/product-types/%d", typeID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.request(t, http.MethodGet, fmt.Sprintf("/api/products/%d", ringID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthenticationFlow(t *testing.T) {
	ts := setupIntegrationTest(t, nil)
	token := ts.loginAdmin(t)

	w := ts.request(t, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "clerk",
		"email":    "clerk@example.com",
		"password": "clerkpass1",
		"role":     "admin",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	clerkID := uint(decode(t, w)["id"].(float64))

	w = ts.request(t, http.MethodPost, "/api/users/login", map[string]string{
		"username": "clerk@example.com",
		"password": "clerkpass1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	clerkToken := decode(t, w)["token"].(string)

	w = ts.request(t, http.MethodGet, "/api/users/me", nil, clerkToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "clerk", decode(t, w)["username"])

	// Plain admins cannot create users.
	w = ts.request(t, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "intruder", "email": "intruder@example.com", "password": "password12",
	}, clerkToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", clerkID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "User deleted successfully", decode(t, w)["message"])

	w = ts.request(t, http.MethodPost, "/api/users/login", map[string]string{
		"username": "clerk",
		"password": "clerkpass1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t, nil)

	// Envelope resources answer with success=false.
	w := ts.request(t, http.MethodGet, "/api/orders", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])

	// Plain resources answer with a bare error.
	w = ts.request(t, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, decode(t, w)["error"])

	w = ts.request(t, http.MethodPost, "/api/pricing-config", map[string]string{"min_price": "1.00"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, decode(t, w)["error"])

	w = ts.request(t, http.MethodPost, "/api/uploads/presigned-url", map[string]string{
		"filename": "ring.png", "content_type": "image/png",
	}, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A token in the query string only authenticates the live feed upgrade.
	token := ts.loginAdmin(t)
	w = ts.request(t, http.MethodGet, "/api/orders?token="+token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = ts.request(t, http.MethodGet, "/api/orders", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStorefrontEndpoints(t *testing.T) {
	ts := setupIntegrationTest(t, nil)
	token := ts.loginAdmin(t)

	w := ts.request(t, http.MethodGet, "/api/mailing-list", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, []interface{}{}, body["data"])
	assert.Equal(t, map[string]interface{}{
		"page": float64(1), "limit": float64(20), "total": float64(0), "pages": float64(0),
	}, body["pagination"])

	for i := 0; i < 2; i++ {
		w = ts.request(t, http.MethodPost, "/api/mailing-list", map[string]string{"email": "fan@example.com"}, "")
		require.Contains(t, []int{http.StatusOK, http.StatusCreated}, w.Code, w.Body.String())
		assert.Equal(t, true, decode(t, w)["success"])
	}
	w = ts.request(t, http.MethodGet, "/api/mailing-list", nil, token)
	assert.Equal(t, float64(1), decode(t, w)["pagination"].(map[string]interface{})["total"])

	w = ts.request(t, http.MethodPost, "/api/contact-us", map[string]string{
		"name": "Visitor", "email": "not-an-email", "message": "Hello",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, ts.Mailer.count())

	w = ts.request(t, http.MethodPost, "/api/contact-us", map[string]string{
		"name": "Visitor", "email": "visitor@example.com", "message": "Hello",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, ts.Mailer.count())

	w = ts.request(t, http.MethodPost, "/api/uploads/presigned-url", map[string]string{
		"filename": "ring.png", "content_type": "image/png", "folder": "collections",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "collections/ring.png", decode(t, w)["data"].(map[string]interface{})["key"])
}

func TestPublicFormsAreRateLimited(t *testing.T) {
	ts := setupIntegrationTest(t, denyingLimiter{})

	w := ts.request(t, http.MethodPost, "/api/contact-us", map[string]string{
		"name": "Visitor", "email": "visitor@example.com", "message": "Hello",
	}, "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, false, decode(t, w)["success"])
	assert.Equal(t, 0, ts.Mailer.count())

	// Other routes are not limited.
	w = ts.request(t, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInfrastructureRoutes(t *testing.T) {
	ts := setupIntegrationTest(t, nil)

	w := ts.request(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = ts.request(t, http.MethodGet, "/api/swagger.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3.0.3", decode(t, w)["openapi"])

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
