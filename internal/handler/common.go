package handler // HTTP handlers for the stewardship hub API

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/session"
)

// dbTimeout bounds every database round trip made by a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// currentSession returns the caller's session; routes without JWTAuth have
// none and get 401.
func currentSession(c echo.Context) (session.Session, error) {
	s, ok := session.From(c)
	if !ok || s.UserID == "" {
		return s, jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	return s, nil
}

// repoError maps repository sentinels onto HTTP statuses.  what names the
// resource in 404 messages.
func repoError(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return jsonError(c, http.StatusNotFound, what+" not found")
	case errors.Is(err, repository.ErrForbidden):
		return jsonError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrConflict):
		return jsonError(c, http.StatusConflict, what+" cannot be changed in its current state")
	case errors.Is(err, repository.ErrInvalidQuery):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return jsonError(c, http.StatusServiceUnavailable, "database timeout")
	}
	c.Logger().Errorf("%s: %v", what, err)
	return jsonError(c, http.StatusInternalServerError, "internal error")
}

// pathName returns the :name parameter unescaped.
func pathName(c echo.Context) string {
	raw := c.Param("name")
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	return strings.TrimSpace(raw)
}

// queryBool parses an optional boolean query parameter.
func queryBool(c echo.Context, key string) (v bool, set bool, err error) {
	s := strings.TrimSpace(c.QueryParam(key))
	if s == "" {
		return false, false, nil
	}
	v, err = strconv.ParseBool(s)
	return v, err == nil, err
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
