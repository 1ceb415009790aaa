package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/session"
)

// userID returns the authenticated caller's id, or "anon" before JWTAuth
// has run or on public routes.
func userID(c echo.Context) string {
	if s, ok := session.From(c); ok && s.UserID != "" {
		return s.UserID
	}
	return "anon"
}
