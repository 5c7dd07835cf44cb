package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/entrypoint/dto"
)

// RateLimiter caps requests per organization in fixed windows counted in Redis,
// so every API replica shares the same budget.
type RateLimiter struct {
	client      *redis.Client
	scope       string
	maxRequests int64
	window      time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a rate limiter for one group of routes.
// A nil client or a non-positive limit disables limiting.
func NewRateLimiter(client *redis.Client, scope string, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:      client,
		scope:       scope,
		maxRequests: int64(maxRequests),
		window:      window,
		now:         time.Now,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// It must run after Authenticate; anonymous requests are keyed by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil || rl.maxRequests <= 0 || rl.window <= 0 {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if orgID, ok := GetOrganizationIDFromContext(c); ok {
			subject = orgID.String()
		}

		allowed, err := rl.allow(c, subject)
		if err != nil {
			// Redis being down must not take the API with it.
			slog.Warn("rate limiter unavailable, allowing request",
				"scope", rl.scope,
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeImportRateLimited),
			})
			return
		}

		c.Next()
	}
}

// allow increments the subject's counter for the current window.
func (rl *RateLimiter) allow(c *gin.Context, subject string) (bool, error) {
	windowStart := rl.now().UTC().Truncate(rl.window).Unix()
	key := fmt.Sprintf("ratelimit:%s:%s:%d", rl.scope, subject, windowStart)

	ctx := c.Request.Context()
	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}

	return incr.Val() <= rl.maxRequests, nil
}
