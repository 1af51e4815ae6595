package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecommerce-platform/auth-service/internal/core/ports"
	"github.com/ecommerce-platform/auth-service/internal/security"
)

// Auth validates the bearer access token and injects the resolved principal
// into context. The token itself only carries the subject; the role and user
// id come from the principal lookup so revoked or deleted accounts lose
// access as soon as the directory says so.
func Auth(codec *security.TokenCodec, users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			v := codec.Validate(parts[1])
			if !v.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.GetByEmail(c.Request().Context(), v.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("subject", user.Email)
			c.Set("user_id", user.ID)
			c.Set("role", user.Role)

			return next(c)
		}
	}
}
