package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/budget"
	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/service"
)

// MemberHandler serves endpoints open to every verified member.
type MemberHandler struct {
	Purchases   *repository.PurchaseRepo
	Shopping    *repository.ShoppingRepo
	Suggestions *repository.SuggestionRepo
	Dashboard   *service.Dashboard
}

// StockItems handles GET /v1/stock-items?q=.
func (h *MemberHandler) StockItems(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	ps, err := h.Purchases.All(ctx)
	if err != nil {
		return repoError(c, err, "stock items")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": budget.StockItems(ps, c.QueryParam("q"))})
}

// ListShopping handles GET /v1/shopping-list.
func (h *MemberHandler) ListShopping(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Shopping.List(ctx)
	if err != nil {
		return repoError(c, err, "shopping list")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// AddShopping handles POST /v1/shopping-list.  Reporting an item already on
// the list returns the existing entry with 200.
func (h *MemberHandler) AddShopping(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var body struct {
		ItemName string `json:"itemName"`
	}
	if err := c.Bind(&body); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(body.ItemName) == "" {
		return jsonError(c, http.StatusBadRequest, "itemName is required")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	e, created, err := h.Shopping.Add(ctx, body.ItemName, s.UserID)
	if err != nil {
		return repoError(c, err, "shopping list entry")
	}
	if created {
		return c.JSON(http.StatusCreated, e)
	}
	return c.JSON(http.StatusOK, e)
}

type suggestionReq struct {
	ItemName string `json:"itemName"`
	Reason   string `json:"reason"`
}

func (r suggestionReq) check() string {
	if strings.TrimSpace(r.ItemName) == "" {
		return "itemName is required"
	}
	return ""
}

// MySuggestions handles GET /v1/suggestions/mine.
func (h *MemberHandler) MySuggestions(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Suggestions.ListByUser(ctx, s.UserID)
	if err != nil {
		return repoError(c, err, "suggestion")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// CreateSuggestion handles POST /v1/suggestions.
func (h *MemberHandler) CreateSuggestion(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req suggestionReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.check(); msg != "" {
		return jsonError(c, http.StatusBadRequest, msg)
	}
	sg := &model.Suggestion{
		ItemName:      req.ItemName,
		Reason:        strings.TrimSpace(req.Reason),
		SubmittedBy:   s.UserID,
		SubmitterName: s.Name,
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Suggestions.Create(ctx, sg); err != nil {
		return repoError(c, err, "suggestion")
	}
	return c.JSON(http.StatusCreated, sg)
}

// UpdateSuggestion handles PUT /v1/suggestions/:id.  Only the author may
// edit, and only while the suggestion is still Pending.
func (h *MemberHandler) UpdateSuggestion(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req suggestionReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.check(); msg != "" {
		return jsonError(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	sg, err := h.Suggestions.UpdateOwn(ctx, c.Param("id"), s.UserID, req.ItemName, strings.TrimSpace(req.Reason))
	if err != nil {
		return repoError(c, err, "suggestion")
	}
	return c.JSON(http.StatusOK, sg)
}

// DeleteSuggestion handles DELETE /v1/suggestions/:id.
func (h *MemberHandler) DeleteSuggestion(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Suggestions.DeleteOwn(ctx, c.Param("id"), s.UserID); err != nil {
		return repoError(c, err, "suggestion")
	}
	return c.NoContent(http.StatusNoContent)
}

// MemberDashboard handles GET /v1/dashboard/member.
func (h *MemberHandler) MemberDashboard(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	v, err := h.Dashboard.MemberView(ctx, s)
	if err != nil {
		return repoError(c, err, "dashboard")
	}
	return c.JSON(http.StatusOK, v)
}
