package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/db"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func init() {
	util.BcryptCost = bcrypt.MinCost
	gin.SetMode(gin.TestMode)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	auth   *middleware.AuthMiddleware
}

func setupControllerTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	return &testEnv{
		db:     testDB,
		router: router,
		auth:   middleware.NewAuthMiddleware(testJWTSecret),
	}
}

func tokenFor(t *testing.T, id uint, role, userType string) string {
	token, _, err := util.GenerateToken(util.TokenSubject{
		ID:       id,
		Username: "tester",
		Email:    "tester@example.com",
		Role:     role,
		UserType: userType,
	}, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	return tokenFor(t, 1, string(model.RoleAdmin), util.UserTypeAdmin)
}

func superAdminToken(t *testing.T) string {
	return tokenFor(t, 1, string(model.RoleSuperAdmin), util.UserTypeAdmin)
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
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
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func seedProductType(t *testing.T, testDB *gorm.DB, name string) *model.ProductType {
	pt := &model.ProductType{Name: name}
	require.NoError(t, testDB.Create(pt).Error)
	return pt
}

func seedProduct(t *testing.T, testDB *gorm.DB, productTypeID uint, name, price string, stock int) *model.Product {
	p := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Stock:         stock,
		ProductTypeID: productTypeID,
		IsActive:      true,
	}
	require.NoError(t, testDB.Omit("ProductType").Create(p).Error)
	return p
}

func formatID(id float64) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeInto(w *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}
