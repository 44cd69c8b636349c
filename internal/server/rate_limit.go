package server

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/crmlite/internal/ratelimit"
)

// ReportRateLimit throttles report downloads per client IP.
func (s *Server) ReportRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.reportLimiter.Enabled() {
			c.Next()
			return
		}

		res, err := s.reportLimiter.AllowReport(c.Request.Context(), normalizeRateLimitEndpoint(c), c.ClientIP())
		if err != nil {
			if errors.Is(err, ratelimit.ErrRateLimited) && res != nil {
				c.Header("Retry-After", retryAfterSeconds(res))
				c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				c.Header("X-RateLimit-Remaining", "0")
			}
			AbortWithError(c, err)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Next()
	}
}

func retryAfterSeconds(res *ratelimit.Result) string {
	seconds := int(math.Ceil(res.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
