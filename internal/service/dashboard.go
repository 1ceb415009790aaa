package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/stewardship-hub/internal/budget"
	"github.com/iliyamo/stewardship-hub/internal/model"
	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/session"
)

const recentPurchases = 10

// Dashboard assembles the admin and member views.  Independent reads run
// concurrently and the engine runs once all of them have returned.
type Dashboard struct {
	Semester      *repository.SemesterRepo
	Purchases     *repository.PurchaseRepo
	Shopping      *repository.ShoppingRepo
	Suggestions   *repository.SuggestionRepo
	Verifications *repository.VerificationRepo
}

// Snapshot is the budget state at one instant.
type Snapshot struct {
	Config    *model.SemesterConfig       `json:"config"`
	Purchases []model.Purchase            `json:"-"`
	Usage     map[string]budget.UsageStat `json:"-"`
	Metrics   budget.Metrics              `json:"metrics"`
}

// AdminView is everything the steward dashboard shows.
type AdminView struct {
	Snapshot
	UsageStats         []budget.UsageStat          `json:"usageStats"`
	RecentPurchases    []model.Purchase            `json:"recentPurchases"`
	ShoppingList       []model.ShoppingListEntry   `json:"shoppingList"`
	PendingSuggestions []model.Suggestion          `json:"pendingSuggestions"`
	PendingRequests    []model.VerificationRequest `json:"pendingRequests"`
	GeneratedAt        time.Time                   `json:"generatedAt"`
}

// MemberView is what a verified member sees.
type MemberView struct {
	StockItems    []string                  `json:"stockItems"`
	ShoppingList  []model.ShoppingListEntry `json:"shoppingList"`
	MySuggestions []model.Suggestion        `json:"mySuggestions"`
}

// Budget loads the active configuration and all purchases and runs the
// engine.  A missing configuration is not an error: the engine degrades.
func (d *Dashboard) Budget(ctx context.Context, now time.Time) (Snapshot, error) {
	var s Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg, err := d.Semester.GetActive(gctx)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.Config = cfg
		return err
	})
	g.Go(func() (err error) {
		s.Purchases, err = d.Purchases.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	s.Usage = budget.ComputeUsageStats(s.Purchases, s.Config, now)
	s.Metrics = budget.ComputeBudgetMetrics(s.Config, s.Purchases, s.Usage, now)
	return s, nil
}

func (d *Dashboard) AdminView(ctx context.Context, now time.Time) (AdminView, error) {
	var v AdminView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		v.Snapshot, err = d.Budget(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		v.ShoppingList, err = d.Shopping.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		v.PendingSuggestions, err = d.Suggestions.List(gctx, repository.ListQuery{
			Where: map[string]any{"status": string(model.SuggestionPending)},
		})
		return err
	})
	g.Go(func() (err error) {
		v.PendingRequests, err = d.Verifications.ListByStatus(gctx, model.VerificationPending)
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminView{}, err
	}

	v.UsageStats = budget.SortedUsage(v.Usage)
	v.RecentPurchases = newestFirst(v.Purchases, recentPurchases)
	v.GeneratedAt = now
	return v, nil
}

func (d *Dashboard) MemberView(ctx context.Context, s session.Session) (MemberView, error) {
	var (
		v         MemberView
		purchases []model.Purchase
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		purchases, err = d.Purchases.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		v.ShoppingList, err = d.Shopping.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		v.MySuggestions, err = d.Suggestions.ListByUser(gctx, s.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return MemberView{}, err
	}
	v.StockItems = budget.StockItems(purchases, "")
	return v, nil
}

// newestFirst returns up to n purchases from a chronological slice, most
// recent first.
func newestFirst(ps []model.Purchase, n int) []model.Purchase {
	out := make([]model.Purchase, 0, n)
	for i := len(ps) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, ps[i])
	}
	return out
}
