package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/RangerAkash1/workflow-builder/backend/internal/auth"
	"github.com/RangerAkash1/workflow-builder/backend/pkg/logger"
)

// AuthMiddleware resolves an optional Bearer token into the request user.
// Requests without a token continue anonymously; a token that is present
// but invalid is rejected.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return next(c)
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Invalid authorization header"})
		}

		cc := c.(*AppContext)
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.ParseToken(cc.App.JWTSecret, token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Invalid or expired token"})
		}

		user, err := cc.App.Queries.GetUserByUUID(c.Request().Context(), claims.UserID)
		if err != nil {
			logger.Warn("Token references unknown user", "uuid", claims.UserID)
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Invalid or expired token"})
		}
		if !user.IsActive {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Account disabled"})
		}

		cc.User = &AppUser{
			ID:       user.ID,
			UUID:     user.UUID,
			Username: user.Username,
			Email:    user.Email,
		}
		return next(c)
	}
}

// RequireUser rejects anonymous requests. Apply after AuthMiddleware.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.(*AppContext).User == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Authentication required"})
		}
		return next(c)
	}
}
