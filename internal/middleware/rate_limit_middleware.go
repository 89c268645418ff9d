package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/errors"
	ratelimit "github.com/ikkim/shopadmin-backend/pkg/redis"
)

var errRateLimited = errors.TooManyRequests("Too many requests, please try again later")

// RateLimit allows limiter's quota per client IP and route. Limiter failures let the
// request through.
func RateLimit(limiter ratelimit.Limiter, respond Responder) gin.HandlerFunc {
	if respond == nil {
		respond = errors.RespondEnvelope
	}
	return func(c *gin.Context) {
		key := c.FullPath() + ":" + c.ClientIP()
		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			GetLoggerFromContext(c).Error("Rate limiter unavailable", err, map[string]interface{}{
				"key": key,
			})
			c.Next()
			return
		}

		if decision.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
		if !decision.Allowed {
			retry := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			GetLoggerFromContext(c).Warn("Rate limit exceeded", map[string]interface{}{
				"key": key,
			})
			respond(c, errRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
