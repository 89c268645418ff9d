package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/util"
)

// Context keys for the authenticated principal
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
	UserTypeKey  = "user_type"
	ClaimsKey    = "claims"

	tokenQueryParam = "token"
)

var (
	errMissingToken  = errors.Unauthorized(errors.AuthUnauthorized, "Authorization header is required")
	errMalformedAuth = errors.Unauthorized(errors.AuthTokenInvalid, "Invalid authorization header format")
	errExpiredToken  = errors.Unauthorized(errors.AuthTokenExpired, "Token has expired")
	errInvalidToken  = errors.Unauthorized(errors.AuthTokenInvalid, "Invalid or expired token")
	errForbidden     = errors.Forbidden("Insufficient permissions")
)

// Responder writes an error body in the shape a resource uses.
type Responder func(c *gin.Context, err error)

// Policy is a declarative access rule. Roles and UserTypes must both match; an empty
// list matches anything.
type Policy struct {
	Name      string
	Roles     []string
	UserTypes []string
}

var (
	AdminStaff = Policy{
		Name:      "admin_staff",
		Roles:     []string{"admin", "superAdmin"},
		UserTypes: []string{util.UserTypeAdmin},
	}
	SuperAdminOnly = Policy{
		Name:      "super_admin",
		Roles:     []string{"superAdmin"},
		UserTypes: []string{util.UserTypeAdmin},
	}
	AdminType = Policy{
		Name:      "admin_type",
		UserTypes: []string{util.UserTypeAdmin},
	}
	CustomerOnly = Policy{
		Name:      "customer",
		UserTypes: []string{util.UserTypeCustomer},
	}
	Authenticated = Policy{Name: "authenticated"}
)

// Allows reports whether the claims satisfy the policy.
func (p Policy) Allows(claims *util.Claims) bool {
	if claims == nil {
		return false
	}
	return matches(p.Roles, claims.Role) && matches(p.UserTypes, claims.UserType)
}

func matches(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

type AuthMiddleware struct {
	jwtSecret string
	respond   Responder
}

// NewAuthMiddleware answers failures with the {success:false, message} envelope.
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		respond:   errors.RespondEnvelope,
	}
}

// Plain returns a copy that answers failures with a bare {error} body.
func (m *AuthMiddleware) Plain() *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: m.jwtSecret, respond: errors.RespondPlain}
}

// extractToken reads "Bearer <token>". Only when allowQuery is set does it fall back
// to the token query parameter, for browser websocket clients that cannot send headers.
func extractToken(c *gin.Context, allowQuery bool) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if allowQuery {
			if token := c.Query(tokenQueryParam); token != "" {
				return token, nil
			}
		}
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errMalformedAuth
	}
	return strings.TrimSpace(parts[1]), nil
}

func (m *AuthMiddleware) authenticate(c *gin.Context, allowQuery bool) (*util.Claims, error) {
	token, err := extractToken(c, allowQuery)
	if err != nil {
		return nil, err
	}
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		if stderrors.Is(err, util.ErrExpiredToken) {
			return nil, errExpiredToken
		}
		return nil, errInvalidToken
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims *util.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(UserIDKey, claims.ID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserRoleKey, claims.Role)
	c.Set(UserTypeKey, claims.UserType)
}

// Require authenticates the request and enforces policy: 401 without valid
// credentials, 403 when the policy rejects them.
func (m *AuthMiddleware) Require(policy Policy) gin.HandlerFunc {
	return m.require(policy, false)
}

// RequireWebSocket is Require for websocket upgrades, which may also carry the
// token in the token query parameter.
func (m *AuthMiddleware) RequireWebSocket(policy Policy) gin.HandlerFunc {
	return m.require(policy, true)
}

func (m *AuthMiddleware) require(policy Policy, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		claims, err := m.authenticate(c, allowQuery)
		if err != nil {
			log.Warn("Authentication failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			m.respond(c, err)
			c.Abort()
			return
		}
		setClaims(c, claims)

		if !policy.Allows(claims) {
			log.Warn("Insufficient permissions", map[string]interface{}{
				"user_id":   claims.ID,
				"user_role": claims.Role,
				"user_type": claims.UserType,
				"policy":    policy.Name,
			})
			m.respond(c, errForbidden)
			c.Abort()
			return
		}

		log.Debug("Request authorized", map[string]interface{}{
			"user_id": claims.ID,
			"policy":  policy.Name,
		})
		c.Next()
	}
}

// OptionalAuthenticate attaches the principal when a valid token is present and
// otherwise continues as a guest.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		claims, err := m.authenticate(c, false)
		if err != nil {
			GetLoggerFromContext(c).Debug("Ignoring invalid credentials on optional route", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// GetClaims returns the claims attached by Require or OptionalAuthenticate.
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*util.Claims)
	return claims, ok
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	return c.GetString(UserRoleKey), c.GetString(UserRoleKey) != ""
}

// GetUserType extracts the principal type (admin or customer) from context
func GetUserType(c *gin.Context) (string, bool) {
	return c.GetString(UserTypeKey), c.GetString(UserTypeKey) != ""
}

// IsAdmin reports whether the request carries admin staff credentials.
func IsAdmin(c *gin.Context) bool {
	claims, ok := GetClaims(c)
	return ok && AdminStaff.Allows(claims)
}
