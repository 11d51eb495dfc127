package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"harbor-control/pkg/response"
)

// RateLimiter counts hits on key within window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit fixed window limit per client and route.
// A nil limiter or a limiter error lets the request through.
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
				response.AjaxFail(c, http.StatusTooManyRequests, response.Ajax{Reason: "rate_limited"})
			} else {
				response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited, "too many requests, slow down")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
