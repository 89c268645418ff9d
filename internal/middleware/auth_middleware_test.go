package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	ratelimit "github.com/ikkim/shopadmin-backend/pkg/redis"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	return router, NewAuthMiddleware(testJWTSecret)
}

func generateTestToken(t *testing.T, userID uint, role, userType string, expiry time.Duration) string {
	token, _, err := util.GenerateToken(util.TokenSubject{
		ID:       userID,
		Username: "tester",
		Email:    "tester@example.com",
		Role:     role,
		UserType: userType,
	}, testJWTSecret, expiry)
	require.NoError(t, err)
	return token
}

func okHandler(c *gin.Context) {
	userID, _ := GetUserID(c)
	role, _ := GetUserRole(c)
	userType, _ := GetUserType(c)
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role, "user_type": userType})
}

func TestAuthMiddleware_Require_Success(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/test", auth.Require(AdminStaff), okHandler)

	token := generateTestToken(t, 7, "admin", util.UserTypeAdmin, 15*time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, util.UserTypeAdmin, body["user_type"])
}

func TestAuthMiddleware_Require_NoToken(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/test", auth.Require(Authenticated), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAuthMiddleware_Require_InvalidFormat(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/test", auth.Require(Authenticated), okHandler)

	tests := []struct {
		name   string
		header string
	}{
		{name: "Missing Bearer prefix", header: "invalid-token"},
		{name: "Wrong prefix", header: "Basic token123"},
		{name: "Empty token", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid authorization header format")
		})
	}
}

func TestAuthMiddleware_Require_InvalidAndExpiredToken(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/test", auth.Require(Authenticated), okHandler)

	expired := generateTestToken(t, 1, "admin", util.UserTypeAdmin, -time.Minute)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{name: "Garbage", token: "invalid.jwt.token", message: "Invalid or expired token"},
		{name: "Expired", token: expired, message: "Token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestAuthMiddleware_Require_Policies(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/staff", auth.Require(AdminStaff), okHandler)
	router.GET("/super", auth.Require(SuperAdminOnly), okHandler)
	router.GET("/customer", auth.Require(CustomerOnly), okHandler)

	tests := []struct {
		name     string
		path     string
		role     string
		userType string
		expected int
	}{
		{"Admin on staff route", "/staff", "admin", util.UserTypeAdmin, http.StatusOK},
		{"Super admin on staff route", "/staff", "superAdmin", util.UserTypeAdmin, http.StatusOK},
		{"Customer on staff route", "/staff", "customer", util.UserTypeCustomer, http.StatusForbidden},
		{"Admin on super route", "/super", "admin", util.UserTypeAdmin, http.StatusForbidden},
		{"Super admin on super route", "/super", "superAdmin", util.UserTypeAdmin, http.StatusOK},
		{"Customer on customer route", "/customer", "customer", util.UserTypeCustomer, http.StatusOK},
		{"Admin on customer route", "/customer", "admin", util.UserTypeAdmin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := generateTestToken(t, 1, tt.role, tt.userType, 15*time.Minute)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
			if tt.expected == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Insufficient permissions")
			}
		})
	}
}

func TestAuthMiddleware_Plain(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/test", auth.Plain().Require(AdminStaff), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authorization header is required"}`, w.Body.String())
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/ws", auth.RequireWebSocket(AdminType), okHandler)
	router.GET("/orders", auth.Require(AdminType), okHandler)

	token := generateTestToken(t, 3, "admin", util.UserTypeAdmin, 15*time.Minute)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/test", auth.OptionalAuthenticate(), func(c *gin.Context) {
		_, ok := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "admin": IsAdmin(c)})
	})

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"Guest", "", `{"authenticated":false,"admin":false}`},
		{"Invalid token", "Bearer nope", `{"authenticated":false,"admin":false}`},
		{"Customer", "Bearer " + generateTestToken(t, 2, "customer", util.UserTypeCustomer, time.Minute), `{"authenticated":true,"admin":false}`},
		{"Admin", "Bearer " + generateTestToken(t, 1, "admin", util.UserTypeAdmin, time.Minute), `{"authenticated":true,"admin":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}

func TestPolicy_Allows(t *testing.T) {
	assert.False(t, Authenticated.Allows(nil))
	assert.True(t, Authenticated.Allows(&util.Claims{Role: "anything"}))
	assert.True(t, AdminType.Allows(&util.Claims{Role: "editor", UserType: util.UserTypeAdmin}))
	assert.False(t, AdminStaff.Allows(&util.Claims{Role: "editor", UserType: util.UserTypeAdmin}))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	router, _ := setupMiddlewareTest()
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware_RedactsQueryToken(t *testing.T) {
	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logger.Initialize(logger.Config{Level: "info", Format: "console"}) })

	router, auth := setupMiddlewareTest()
	router.GET("/ws", auth.RequireWebSocket(AdminType), okHandler)

	token := generateTestToken(t, 3, "admin", util.UserTypeAdmin, 15*time.Minute)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?page=2&token="+token, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, buf.String(), token)
	assert.Contains(t, buf.String(), "token=REDACTED")
	assert.Contains(t, buf.String(), "page=2")
}

type stubLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name     string
		limiter  *stubLimiter
		expected int
	}{
		{
			name:     "Allowed",
			limiter:  &stubLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 10, Remaining: 9}},
			expected: http.StatusOK,
		},
		{
			name:     "Limited",
			limiter:  &stubLimiter{decision: ratelimit.Decision{Allowed: false, Limit: 10, RetryAfter: 1500 * time.Millisecond}},
			expected: http.StatusTooManyRequests,
		},
		{
			name:     "Limiter down",
			limiter:  &stubLimiter{err: stderrors.New("connection refused")},
			expected: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupMiddlewareTest()
			router.POST("/contact", RateLimit(tt.limiter, nil), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", nil))

			assert.Equal(t, tt.expected, w.Code)
			require.Len(t, tt.limiter.keys, 1)
			assert.Contains(t, tt.limiter.keys[0], "/contact:")
			if tt.expected == http.StatusTooManyRequests {
				assert.Equal(t, "2", w.Header().Get("Retry-After"))
				assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
			}
		})
	}
}
