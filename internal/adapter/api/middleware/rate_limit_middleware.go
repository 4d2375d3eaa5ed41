package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"campusfound/internal/infrastructure/ratelimit"
	"campusfound/pkg/errors"
	"campusfound/pkg/logger"
	"campusfound/pkg/response"
)

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// Limit throttles an action per client IP. Submissions and moderation
// actions are the only write surface of an anonymous API, so they get
// tighter budgets than reads.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, waitTime := m.limiter.Allow(ip, action)
			if !allowed {
				logger.Warn("Rate limit hit: ip=%s action=%s (retry in %v)", ip, action, waitTime)
				return response.Error(c, errors.TooManyRequests(
					fmt.Sprintf("Too many requests, try again in %d seconds", int(waitTime.Seconds())+1),
				))
			}

			return next(c)
		}
	}
}
