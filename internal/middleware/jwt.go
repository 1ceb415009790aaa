package middleware // reusable HTTP middleware: auth, roles, caching and rate limiting

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/session"
	"github.com/iliyamo/stewardship-hub/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the caller's
// session.Session on the context.  Handlers read it with session.From.
// The provided secret must match the one used when issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			session.Set(c, session.New(claims.Subject, claims.Email, claims.Name, claims.Teams, claims.Role))
			return next(c)
		}
	}
}
