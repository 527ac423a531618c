package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mcreation/auth-service/internal/tokens"
)

const bearerPrefix = "Bearer "

type RequireAuth struct {
	Tokens *tokens.Service
}

func NewRequireAuth(t *tokens.Service) *RequireAuth {
	return &RequireAuth{Tokens: t}
}

// Middleware verifies the bearer access token and stashes the caller
// identity on the context.
func (m *RequireAuth) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token provided.")
		}

		claims, err := m.Tokens.VerifyAccessToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)

		return next(c)
	}
}

// UserID returns the authenticated caller's id set by Middleware.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}
