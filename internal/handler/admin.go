package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stewardship-hub/internal/budget"
	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/queue"
	"github.com/iliyamo/stewardship-hub/internal/receipt"
	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/service"
)

// AdminHandler serves the steward-only endpoints: semester configuration,
// the purchase log, budget views and triage of member input.
type AdminHandler struct {
	Semester      *repository.SemesterRepo
	Purchases     *repository.PurchaseRepo
	Shopping      *repository.ShoppingRepo
	Suggestions   *repository.SuggestionRepo
	Verifications *repository.VerificationRepo
	Dashboard     *service.Dashboard
	Approver      *service.Approver
	Events        service.EventPublisher
	Loc           *time.Location   // calendar dates are anchored at noon here
	Now           func() time.Time // clock for the budget engine
}

func (h *AdminHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *AdminHandler) loc() *time.Location {
	if h.Loc != nil {
		return h.Loc
	}
	return time.Local
}

// ---- Semester configuration ----

type semesterReq struct {
	SemesterName       string  `json:"semesterName"`
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
	BrothersOnMealPlan int     `json:"brothersOnMealPlan"`
	MealPlanCost       float64 `json:"mealPlanCost"`
	CarryoverBalance   float64 `json:"carryoverBalance"`
	AdditionalRevenue  float64 `json:"additionalRevenue"`
}

// GetSemesterConfig handles GET /v1/semester-config.
func (h *AdminHandler) GetSemesterConfig(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	cfg, err := h.Semester.GetActive(ctx)
	if err != nil {
		return repoError(c, err, "semester config")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"config":      cfg,
		"totalBudget": budget.ComputeTotalBudget(cfg).Round(2).InexactFloat64(),
	})
}

// PutSemesterConfig handles PUT /v1/semester-config.  The first call of a
// semester creates the record; later calls update it in place.
func (h *AdminHandler) PutSemesterConfig(c echo.Context) error {
	var req semesterReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	start, err := model.ParseCalendarDate(req.StartDate, h.loc())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "startDate: "+err.Error())
	}
	end, err := model.ParseCalendarDate(req.EndDate, h.loc())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "endDate: "+err.Error())
	}
	cfg := &model.SemesterConfig{
		SemesterName:       strings.TrimSpace(req.SemesterName),
		StartDate:          start,
		EndDate:            end,
		BrothersOnMealPlan: req.BrothersOnMealPlan,
		MealPlanCost:       req.MealPlanCost,
		CarryoverBalance:   req.CarryoverBalance,
		AdditionalRevenue:  req.AdditionalRevenue,
	}
	if err := cfg.Validate(); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	active, err := h.Semester.GetActive(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if err := h.Semester.Create(ctx, cfg); err != nil {
			return repoError(c, err, "semester config")
		}
		return c.JSON(http.StatusCreated, cfg)
	case err != nil:
		return repoError(c, err, "semester config")
	}
	cfg.ID = active.ID
	if err := h.Semester.Update(ctx, cfg); err != nil {
		return repoError(c, err, "semester config")
	}
	return c.JSON(http.StatusOK, cfg)
}

// ---- Purchases ----

type purchaseReq struct {
	ItemName              string  `json:"itemName"`
	Cost                  float64 `json:"cost"`
	Quantity              int     `json:"quantity"`
	Category              string  `json:"category"`
	PurchaseDate          string  `json:"purchaseDate"`
	PurchaseFrequency     string  `json:"purchaseFrequency"`
	IsActiveForProjection *bool   `json:"isActiveForProjection"`
	IsStockItem           bool    `json:"isStockItem"`
}

// toPurchase validates req.  Quantity defaults to 1 and items are active for
// projection unless stated otherwise.
func (h *AdminHandler) toPurchase(req purchaseReq) (*model.Purchase, error) {
	freq, err := model.ParseFrequency(req.PurchaseFrequency)
	if err != nil {
		return nil, err
	}
	date, err := model.ParseCalendarDate(req.PurchaseDate, h.loc())
	if err != nil {
		return nil, errors.New("purchaseDate: " + err.Error())
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	p := &model.Purchase{
		ItemName:              strings.TrimSpace(req.ItemName),
		Cost:                  req.Cost,
		Quantity:              req.Quantity,
		Category:              strings.TrimSpace(req.Category),
		PurchaseDate:          date,
		PurchaseFrequency:     freq,
		IsActiveForProjection: boolOr(req.IsActiveForProjection, true),
		IsStockItem:           req.IsStockItem,
	}
	if p.Category == "" {
		p.Category = model.DefaultCategory
	}
	return p, p.Validate()
}

// ListPurchases handles GET /v1/purchases.  Optional filters: itemName,
// category, purchaseFrequency, isActiveForProjection, isStockItem; plus
// orderBy, desc and limit.
func (h *AdminHandler) ListPurchases(c echo.Context) error {
	q := repository.ListQuery{Where: map[string]any{}}
	for _, k := range []string{"itemName", "category", "purchaseFrequency"} {
		if v := strings.TrimSpace(c.QueryParam(k)); v != "" {
			q.Where[k] = v
		}
	}
	for _, k := range []string{"isActiveForProjection", "isStockItem"} {
		v, set, err := queryBool(c, k)
		if err != nil {
			return jsonError(c, http.StatusBadRequest, "invalid "+k)
		}
		if set {
			q.Where[k] = v
		}
	}
	q.OrderBy = c.QueryParam("orderBy")
	q.Desc, _, _ = queryBool(c, "desc")
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return jsonError(c, http.StatusBadRequest, "invalid limit")
		}
		q.Limit = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Purchases.List(ctx, q)
	if err != nil {
		return repoError(c, err, "purchase")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// CreatePurchase handles POST /v1/purchases.
func (h *AdminHandler) CreatePurchase(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := h.toPurchase(req)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Purchases.Create(ctx, p); err != nil {
		return repoError(c, err, "purchase")
	}
	h.publishLogged(c, "single", s.UserID, p.PurchaseDate, []*model.Purchase{p})
	return c.JSON(http.StatusCreated, p)
}

// UpdatePurchase handles PUT /v1/purchases/:id.  The body replaces every
// editable field.
func (h *AdminHandler) UpdatePurchase(c echo.Context) error {
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	p, err := h.toPurchase(req)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	p.ID = c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Purchases.Update(ctx, p); err != nil {
		return repoError(c, err, "purchase")
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePurchase handles DELETE /v1/purchases/:id.
func (h *AdminHandler) DeletePurchase(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Purchases.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err, "purchase")
	}
	return c.NoContent(http.StatusNoContent)
}

// ParseBulk handles POST /v1/purchases/bulk/parse: receipt text in, lines
// for review out.  Nothing is stored.
func (h *AdminHandler) ParseBulk(c echo.Context) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": receipt.Parse(body.Text)})
}

type bulkReq struct {
	Items        []receipt.Line `json:"items"`
	PurchaseDate string         `json:"purchaseDate"`
}

// CreateBulk handles POST /v1/purchases/bulk.  Every line becomes a
// recurring purchase, active for projection, dated at local noon.  The
// batch is stored atomically.
func (h *AdminHandler) CreateBulk(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var req bulkReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return jsonError(c, http.StatusBadRequest, "items are required")
	}
	date, err := model.ParseCalendarDate(req.PurchaseDate, h.loc())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "purchaseDate: "+err.Error())
	}
	date = model.NoonOn(date, h.loc())

	batch := make([]*model.Purchase, 0, len(req.Items))
	for i, line := range req.Items {
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		p := &model.Purchase{
			ItemName:              strings.TrimSpace(line.ItemName),
			Cost:                  line.Cost,
			Quantity:              qty,
			Category:              model.DefaultCategory,
			PurchaseDate:          date,
			PurchaseFrequency:     model.FrequencyRecurring,
			IsActiveForProjection: true,
		}
		if err := p.Validate(); err != nil {
			return jsonError(c, http.StatusBadRequest, "item "+strconv.Itoa(i+1)+": "+err.Error())
		}
		batch = append(batch, p)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Purchases.CreateMany(ctx, batch); err != nil {
		return repoError(c, err, "purchase")
	}
	h.publishLogged(c, "bulk", s.UserID, date, batch)
	return c.JSON(http.StatusCreated, map[string]any{"items": batch})
}

func (h *AdminHandler) publishLogged(c echo.Context, source, by string, date time.Time, ps []*model.Purchase) {
	if h.Events == nil {
		return
	}
	ev := queue.PurchaseLoggedEvent{
		Source:       source,
		LoggedBy:     by,
		PurchaseDate: date.In(h.loc()).Format("2006-01-02"),
		LoggedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	var total float64
	for _, p := range ps {
		ev.Items = append(ev.Items, queue.LoggedItem{
			PurchaseID: p.ID,
			ItemName:   p.ItemName,
			Cost:       p.Cost,
			Quantity:   p.Quantity,
			Frequency:  string(p.PurchaseFrequency),
		})
		total += p.Cost
	}
	ev.Total = total
	if err := h.Events.PublishPurchaseLogged(c.Request().Context(), ev); err != nil {
		c.Logger().Warnf("purchase.logged not published: %v", err)
	}
}

// ---- Item-level toggles ----

// SetItemStatus handles PUT /v1/items/:name/status.  The flag is applied to
// every purchase of the item, matched trimmed and case-insensitively.
func (h *AdminHandler) SetItemStatus(c echo.Context) error {
	var body struct {
		IsActiveForProjection *bool `json:"isActiveForProjection"`
	}
	if err := c.Bind(&body); err != nil || body.IsActiveForProjection == nil {
		return jsonError(c, http.StatusBadRequest, "isActiveForProjection is required")
	}
	name := pathName(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	n, err := h.Purchases.SetActiveByName(ctx, name, *body.IsActiveForProjection)
	if err != nil {
		return repoError(c, err, "item")
	}
	return c.JSON(http.StatusOK, echo.Map{"itemName": name, "isActiveForProjection": *body.IsActiveForProjection, "updated": n})
}

// SetItemStock handles PUT /v1/items/:name/stock.
func (h *AdminHandler) SetItemStock(c echo.Context) error {
	var body struct {
		IsStockItem *bool `json:"isStockItem"`
	}
	if err := c.Bind(&body); err != nil || body.IsStockItem == nil {
		return jsonError(c, http.StatusBadRequest, "isStockItem is required")
	}
	name := pathName(c)
	ctx, cancel := reqCtx(c)
	defer cancel()
	n, err := h.Purchases.SetStockByName(ctx, name, *body.IsStockItem)
	if err != nil {
		return repoError(c, err, "item")
	}
	return c.JSON(http.StatusOK, echo.Map{"itemName": name, "isStockItem": *body.IsStockItem, "updated": n})
}

// ---- Budget views ----

// BudgetMetrics handles GET /v1/budget/metrics.
func (h *AdminHandler) BudgetMetrics(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	snap, err := h.Dashboard.Budget(ctx, h.now())
	if err != nil {
		return repoError(c, err, "budget")
	}
	return c.JSON(http.StatusOK, snap)
}

// BudgetUsage handles GET /v1/budget/usage.
func (h *AdminHandler) BudgetUsage(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	snap, err := h.Dashboard.Budget(ctx, h.now())
	if err != nil {
		return repoError(c, err, "budget")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": budget.SortedUsage(snap.Usage)})
}

// AdminDashboard handles GET /v1/dashboard/admin.
func (h *AdminHandler) AdminDashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	v, err := h.Dashboard.AdminView(ctx, h.now())
	if err != nil {
		return repoError(c, err, "dashboard")
	}
	return c.JSON(http.StatusOK, v)
}

// ---- Triage ----

// DeleteShoppingItem handles DELETE /v1/shopping-list/:id, typically once
// the item has been bought.
func (h *AdminHandler) DeleteShoppingItem(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Shopping.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err, "shopping list entry")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSuggestions handles GET /v1/suggestions with an optional ?status=.
func (h *AdminHandler) ListSuggestions(c echo.Context) error {
	q := repository.ListQuery{}
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		if !model.SuggestionStatus(s).Valid() {
			return jsonError(c, http.StatusBadRequest, "invalid status")
		}
		q.Where = map[string]any{"status": s}
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Suggestions.List(ctx, q)
	if err != nil {
		return repoError(c, err, "suggestion")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// SetSuggestionStatus handles PATCH /v1/suggestions/:id/status.
func (h *AdminHandler) SetSuggestionStatus(c echo.Context) error {
	var body struct {
		Status model.SuggestionStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil || !body.Status.Valid() {
		return jsonError(c, http.StatusBadRequest, "status must be one of Pending, Approved, Declined, Purchased")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Suggestions.SetStatus(ctx, c.Param("id"), body.Status)
	if err != nil {
		return repoError(c, err, "suggestion")
	}
	return c.JSON(http.StatusOK, s)
}

// SetSuggestionResponse handles PATCH /v1/suggestions/:id/response.
func (h *AdminHandler) SetSuggestionResponse(c echo.Context) error {
	var body struct {
		AdminResponse string `json:"adminResponse"`
	}
	if err := c.Bind(&body); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Suggestions.SetResponse(ctx, c.Param("id"), strings.TrimSpace(body.AdminResponse))
	if err != nil {
		return repoError(c, err, "suggestion")
	}
	return c.JSON(http.StatusOK, s)
}

// ListVerificationRequests handles GET /v1/verification-requests (pending
// only).
func (h *AdminHandler) ListVerificationRequests(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Verifications.ListByStatus(ctx, model.VerificationPending)
	if err != nil {
		return repoError(c, err, "verification request")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// ApproveVerification handles POST /v1/verification-requests/:id/approve
// with body {userId, userEmail}.
func (h *AdminHandler) ApproveVerification(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	var in service.ApproveInput
	if err := c.Bind(&in); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	in.RequestID = c.Param("id")
	in.ApprovedBy = s.UserID

	ctx, cancel := reqCtx(c)
	defer cancel()
	req, err := h.Approver.Approve(ctx, in)
	if err != nil {
		return approvalError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

// DenyVerification handles POST /v1/verification-requests/:id/deny.
func (h *AdminHandler) DenyVerification(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	req, err := h.Approver.Deny(ctx, c.Param("id"))
	if err != nil {
		return approvalError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

func approvalError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingApprovalFields):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotPending):
		return jsonError(c, http.StatusConflict, err.Error())
	}
	return repoError(c, err, "verification request")
}
