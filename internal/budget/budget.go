package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

// Metrics is the point-in-time budget status plus the end-of-semester
// projection.  All values are rounded to cents.
type Metrics struct {
	TotalBudget       float64 `json:"totalBudget"`
	TotalSpent        float64 `json:"totalSpent"`
	Remaining         float64 `json:"remaining"`
	ProjectedSpending float64 `json:"projectedSpending"`
}

// ComputeTotalBudget returns participants * meal plan cost plus carryover
// and additional revenue, or zero when there is no configuration.
func ComputeTotalBudget(cfg *model.SemesterConfig) decimal.Decimal {
	if cfg == nil {
		return decimal.Zero
	}
	mealPlan := decimal.NewFromInt(int64(cfg.BrothersOnMealPlan)).Mul(decimal.NewFromFloat(cfg.MealPlanCost))
	return mealPlan.
		Add(decimal.NewFromFloat(cfg.CarryoverBalance)).
		Add(decimal.NewFromFloat(cfg.AdditionalRevenue))
}

// ComputeBudgetMetrics combines actual spend to date with a usage-rate
// projection: every active recurring item is extrapolated at its measured
// weekly rate over the weeks left in the semester, while one-time costs are
// counted once at face value.  Inactive items keep their history but add
// nothing going forward.
//
// With no configuration, or a semester window that is unset or inverted,
// the result degrades to the total budget with nothing spent or projected.
func ComputeBudgetMetrics(cfg *model.SemesterConfig, purchases []model.Purchase, usage map[string]UsageStat, now time.Time) Metrics {
	total := ComputeTotalBudget(cfg)
	if !cfg.HasValidWindow() {
		return Metrics{
			TotalBudget: cents(total),
			Remaining:   cents(total),
		}
	}

	spent, oneTime := decimal.Zero, decimal.Zero
	for _, p := range purchases {
		cost := decimal.NewFromFloat(p.Cost)
		spent = spent.Add(cost)
		if p.PurchaseFrequency.IsOnce() {
			oneTime = oneTime.Add(cost)
		}
	}

	remainingWeeks := decimal.Zero
	if left := cfg.EndDate.Sub(now); left > 0 {
		remainingWeeks = durationInWeeks(left)
	}

	future := decimal.Zero
	for _, s := range usage {
		if !s.IsActive {
			continue
		}
		future = future.Add(decimal.NewFromFloat(s.AvgWeeklyCount).
			Mul(decimal.NewFromFloat(s.AvgCost)).
			Mul(remainingWeeks))
	}

	recurringSoFar := spent.Sub(oneTime)
	projected := recurringSoFar.Add(future).Add(oneTime)

	return Metrics{
		TotalBudget:       cents(total),
		TotalSpent:        cents(spent),
		Remaining:         cents(total.Sub(spent)),
		ProjectedSpending: cents(projected),
	}
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
