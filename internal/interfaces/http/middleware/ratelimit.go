package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/infrastructure/ratelimit"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

type RateLimitObserver interface {
	RateLimited(rule string)
}

// KeyFunc picks the bucket a request counts against.
type KeyFunc func(c *gin.Context) string

// ByClientIP buckets anonymous traffic such as login attempts.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUser buckets authenticated traffic, falling back to the client IP.
func ByUser(c *gin.Context) string {
	if userID, ok := CurrentUserID(c); ok {
		return fmt.Sprintf("user:%d", userID)
	}
	return ByClientIP(c)
}

type RateLimiter struct {
	limiter  ratelimit.RateLimiter
	observer RateLimitObserver
	logger   logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, observer RateLimitObserver, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter:  limiter,
		observer: observer,
		logger:   logger,
	}
}

// Limit enforces rule per key under the given name. Limiter errors let the
// request through so a Redis outage does not lock everyone out.
func (rl *RateLimiter) Limit(name string, rule ratelimit.Rule, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rule.Enabled() {
			c.Next()
			return
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), name+":"+key(c), rule)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable", "rule", name, "error", err)
			c.Next()
			return
		}

		if !allowed {
			if rl.observer != nil {
				rl.observer.RateLimited(name)
			}
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
