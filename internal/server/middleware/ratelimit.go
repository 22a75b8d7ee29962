package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RateLimit caps requests per client IP to perMinute for the given scope.
// Scopes keep separate budgets so a chatty /chat/run caller can still
// check /health.
func RateLimit(scope string, perMinute int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := c.(*AppContext).App.Limiter
			if limiter == nil {
				return next(c)
			}

			key := fmt.Sprintf("%s:%s", scope, c.RealIP())
			if !limiter.Allow(key, perMinute) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"detail": "Rate limit exceeded. Try again later.",
				})
			}
			return next(c)
		}
	}
}
