package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/stewardship-hub/internal/config"
	"github.com/iliyamo/stewardship-hub/internal/handler"
	"github.com/iliyamo/stewardship-hub/internal/middleware"
)

// Guards bundles the cross-cutting middleware shared by the /v1 groups.
// A nil Redis client turns both the limiter and the cache into no-ops.
type Guards struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

func (g Guards) limiter() echo.MiddlewareFunc {
	return middleware.NewTokenBucket(g.RateLimit, g.Redis)
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers sign-in endpoints under /v1/auth and the account
// endpoints every signed-in user may call, pending users included.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	pub := e.Group("/v1/auth", g.limiter())
	pub.POST("/register", a.Register)
	pub.POST("/login", a.Login)
	pub.POST("/refresh", a.Refresh)
	pub.POST("/logout", a.Logout)

	auth := e.Group("/v1", g.limiter(), middleware.JWTAuth(g.JWTSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me/preferences", a.UpdatePreferences)
	auth.POST("/verification-requests", a.RequestVerification)
}

// RegisterMember registers endpoints open to admins and verified members.
func RegisterMember(e *echo.Echo, m *handler.MemberHandler, g Guards) {
	v := e.Group(
		"/v1",
		g.limiter(),
		middleware.JWTAuth(g.JWTSecret),
		middleware.RequireVerified(),
	)

	v.GET("/stock-items", m.StockItems)
	v.GET("/shopping-list", m.ListShopping)
	v.POST("/shopping-list", m.AddShopping)

	v.GET("/suggestions/mine", m.MySuggestions)
	v.POST("/suggestions", m.CreateSuggestion)
	v.PUT("/suggestions/:id", m.UpdateSuggestion)
	v.DELETE("/suggestions/:id", m.DeleteSuggestion)

	v.GET("/dashboard/member", m.MemberDashboard)
}

// RegisterAdmin registers steward-only endpoints.  Budget reads are served
// through the Redis response cache; any successful write purges it.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, g Guards) {
	adm := e.Group(
		"/v1",
		g.limiter(),
		middleware.JWTAuth(g.JWTSecret),
		middleware.RequireAdmin(),
		middleware.PurgeOnWrite(g.Cache, g.Redis),
	)
	cached := middleware.NewRedisCache(g.Cache, g.Redis)

	// ---- Semester ----
	adm.GET("/semester-config", a.GetSemesterConfig)
	adm.PUT("/semester-config", a.PutSemesterConfig)

	// ---- Purchases ----
	adm.GET("/purchases", a.ListPurchases)
	adm.POST("/purchases", a.CreatePurchase)
	adm.PUT("/purchases/:id", a.UpdatePurchase)
	adm.DELETE("/purchases/:id", a.DeletePurchase)
	adm.POST("/purchases/bulk/parse", a.ParseBulk)
	adm.POST("/purchases/bulk", a.CreateBulk)

	// ---- Item toggles (every purchase sharing the name) ----
	adm.PUT("/items/:name/status", a.SetItemStatus)
	adm.PUT("/items/:name/stock", a.SetItemStock)

	// ---- Budget ----
	adm.GET("/budget/metrics", a.BudgetMetrics, cached)
	adm.GET("/budget/usage", a.BudgetUsage, cached)
	adm.GET("/dashboard/admin", a.AdminDashboard, cached)

	// ---- Triage ----
	adm.DELETE("/shopping-list/:id", a.DeleteShoppingItem)
	adm.GET("/suggestions", a.ListSuggestions)
	adm.PATCH("/suggestions/:id/status", a.SetSuggestionStatus)
	adm.PATCH("/suggestions/:id/response", a.SetSuggestionResponse)
	adm.GET("/verification-requests", a.ListVerificationRequests)
	adm.POST("/verification-requests/:id/approve", a.ApproveVerification)
	adm.POST("/verification-requests/:id/deny", a.DenyVerification)
}
