package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/session"
)

// RequireRole aborts with 403 unless the session's role is one of roles.
// It must run after JWTAuth; a missing session is treated as 401.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := session.From(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
			}
			if !allowed[s.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireVerified admits admins and members; pending users get 403.
func RequireVerified() echo.MiddlewareFunc {
	return RequireRole(model.RoleAdmin, model.RoleMember)
}

// RequireAdmin admits admins only.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(model.RoleAdmin)
}
