package budget

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func fallConfig(t *testing.T) *model.SemesterConfig {
	t.Helper()
	return &model.SemesterConfig{
		SemesterName:       "Fall 2025",
		StartDate:          mustDate(t, "2025-09-01"),
		EndDate:            mustDate(t, "2025-12-15"),
		BrothersOnMealPlan: 40,
		MealPlanCost:       500,
		CarryoverBalance:   1500,
		AdditionalRevenue:  500,
	}
}

// weeklyMilk returns five purchases of 6 units for 24.99 spaced a week
// apart, the latest two days before now.
func weeklyMilk(now time.Time) []model.Purchase {
	out := make([]model.Purchase, 0, 5)
	for i := 0; i < 5; i++ {
		out = append(out, model.Purchase{
			ID:                    "milk-" + string(rune('a'+i)),
			ItemName:              "Milk",
			Cost:                  24.99,
			Quantity:              6,
			PurchaseDate:          now.AddDate(0, 0, -2-7*i),
			PurchaseFrequency:     model.FrequencyWeekly,
			IsActiveForProjection: true,
		})
	}
	return out
}

func TestComputeTotalBudget(t *testing.T) {
	if got := ComputeTotalBudget(nil); !got.IsZero() {
		t.Fatalf("ComputeTotalBudget(nil) = %s, want 0", got)
	}
	got := ComputeTotalBudget(fallConfig(t))
	if !got.Equal(decimal.NewFromInt(22000)) {
		t.Fatalf("ComputeTotalBudget = %s, want 22000", got)
	}

	negative := &model.SemesterConfig{BrothersOnMealPlan: 2, MealPlanCost: 100.5, CarryoverBalance: -250.25}
	if got := ComputeTotalBudget(negative); !got.Equal(decimal.RequireFromString("-49.25")) {
		t.Fatalf("ComputeTotalBudget with negative carryover = %s, want -49.25", got)
	}
}

func TestComputeBudgetMetrics_EmptyLedger(t *testing.T) {
	now := mustDate(t, "2025-10-06")
	configs := []*model.SemesterConfig{
		nil,
		fallConfig(t),
		{BrothersOnMealPlan: 10, MealPlanCost: 100}, // no dates
	}
	for i, cfg := range configs {
		m := ComputeBudgetMetrics(cfg, nil, map[string]UsageStat{}, now)
		want := ComputeTotalBudget(cfg).InexactFloat64()
		if m.TotalSpent != 0 {
			t.Errorf("config %d: TotalSpent = %.2f, want 0", i, m.TotalSpent)
		}
		if m.Remaining != want {
			t.Errorf("config %d: Remaining = %.2f, want %.2f", i, m.Remaining, want)
		}
		if m.TotalBudget != want {
			t.Errorf("config %d: TotalBudget = %.2f, want %.2f", i, m.TotalBudget, want)
		}
	}
}

func TestComputeBudgetMetrics_DegradesOnInvertedWindow(t *testing.T) {
	cfg := fallConfig(t)
	cfg.StartDate, cfg.EndDate = cfg.EndDate, cfg.StartDate
	now := mustDate(t, "2025-10-06")

	m := ComputeBudgetMetrics(cfg, weeklyMilk(now), nil, now)
	want := Metrics{TotalBudget: 22000, Remaining: 22000}
	if m != want {
		t.Fatalf("metrics = %+v, want %+v", m, want)
	}
}

func TestComputeBudgetMetrics_Idempotent(t *testing.T) {
	cfg := fallConfig(t)
	now := mustDate(t, "2025-10-06")
	purchases := weeklyMilk(now)
	usage := ComputeUsageStats(purchases, cfg, now)

	first := ComputeBudgetMetrics(cfg, purchases, usage, now)
	second := ComputeBudgetMetrics(cfg, purchases, usage, now)
	if first != second {
		t.Fatalf("repeated call differs: %+v vs %+v", first, second)
	}
}

func TestComputeBudgetMetrics_AddingPurchaseMovesSpendAndRemaining(t *testing.T) {
	cfg := fallConfig(t)
	now := mustDate(t, "2025-10-06")
	purchases := weeklyMilk(now)
	before := ComputeBudgetMetrics(cfg, purchases, nil, now)

	extra := model.Purchase{ItemName: "Paper towels", Cost: 17.35, Quantity: 1, PurchaseFrequency: model.FrequencyOnce}
	after := ComputeBudgetMetrics(cfg, append(purchases, extra), nil, now)

	if d := after.TotalSpent - before.TotalSpent; math.Abs(d-17.35) > 1e-9 {
		t.Fatalf("TotalSpent moved by %.4f, want 17.35", d)
	}
	if d := before.Remaining - after.Remaining; math.Abs(d-17.35) > 1e-9 {
		t.Fatalf("Remaining moved by %.4f, want 17.35", d)
	}
}

func TestComputeBudgetMetrics_InactiveItemsAddNothing(t *testing.T) {
	cfg := fallConfig(t)
	now := mustDate(t, "2025-10-06")

	active := weeklyMilk(now)
	inactive := weeklyMilk(now)
	for i := range inactive {
		inactive[i].ItemName = "Eggs"
		inactive[i].IsActiveForProjection = false
	}
	purchases := append(append([]model.Purchase{}, active...), inactive...)
	usage := ComputeUsageStats(purchases, cfg, now)

	milk, eggs := usage["milk"], usage["eggs"]
	if !milk.IsActive || eggs.IsActive {
		t.Fatalf("active flags = milk:%v eggs:%v, want true/false", milk.IsActive, eggs.IsActive)
	}
	if milk.AvgWeeklyCount != eggs.AvgWeeklyCount || milk.AvgCost != eggs.AvgCost {
		t.Fatalf("histories should match: %+v vs %+v", milk, eggs)
	}

	m := ComputeBudgetMetrics(cfg, purchases, usage, now)
	remainingWeeks := cfg.EndDate.Sub(now).Hours() / (24 * 7)
	future := milk.AvgWeeklyCount * milk.AvgCost * remainingWeeks
	if future <= 0 {
		t.Fatalf("active contribution = %.2f, want > 0", future)
	}
	want := m.TotalSpent + future
	if math.Abs(m.ProjectedSpending-want) > 0.01 {
		t.Fatalf("ProjectedSpending = %.2f, want %.2f (spent + active milk only)", m.ProjectedSpending, want)
	}

	onlyMilk := map[string]UsageStat{"milk": milk}
	if got := ComputeBudgetMetrics(cfg, purchases, onlyMilk, now); got.ProjectedSpending != m.ProjectedSpending {
		t.Fatalf("dropping inactive eggs changed projection: %.2f vs %.2f", got.ProjectedSpending, m.ProjectedSpending)
	}
}

func TestComputeBudgetMetrics_OneTimeCostsNotProjected(t *testing.T) {
	cfg := fallConfig(t)
	now := mustDate(t, "2025-10-06")
	purchases := []model.Purchase{
		{ItemName: "Grill", Cost: 400, Quantity: 1, PurchaseFrequency: model.FrequencyOnce},
		{ItemName: "Plates", Cost: 60, Quantity: 1, PurchaseFrequency: ""},
	}
	usage := ComputeUsageStats(purchases, cfg, now)
	m := ComputeBudgetMetrics(cfg, purchases, usage, now)
	if m.TotalSpent != 460 {
		t.Fatalf("TotalSpent = %.2f, want 460", m.TotalSpent)
	}
	if m.ProjectedSpending != 460 {
		t.Fatalf("ProjectedSpending = %.2f, want 460", m.ProjectedSpending)
	}
}

func TestComputeBudgetMetrics_EndToEnd(t *testing.T) {
	cfg := fallConfig(t)
	now := mustDate(t, "2025-10-06") // five weeks into the semester
	purchases := weeklyMilk(now)

	usage := ComputeUsageStats(purchases, cfg, now)
	milk, ok := usage["milk"]
	if !ok {
		t.Fatalf("usage stats missing milk: %+v", usage)
	}
	if milk.AvgWeeklyCount != 6 {
		t.Errorf("AvgWeeklyCount = %.2f, want 6.00", milk.AvgWeeklyCount)
	}
	if math.Abs(milk.AvgCost-4.165) > 0.0051 {
		t.Errorf("AvgCost = %.3f, want about 4.165", milk.AvgCost)
	}

	m := ComputeBudgetMetrics(cfg, purchases, usage, now)
	if m.TotalBudget != 22000 {
		t.Errorf("TotalBudget = %.2f, want 22000", m.TotalBudget)
	}
	if m.TotalSpent != 124.95 {
		t.Errorf("TotalSpent = %.2f, want 124.95", m.TotalSpent)
	}
	if m.Remaining != 21875.05 {
		t.Errorf("Remaining = %.2f, want 21875.05", m.Remaining)
	}
	if m.ProjectedSpending <= m.TotalSpent {
		t.Errorf("ProjectedSpending = %.2f, want more than spent %.2f", m.ProjectedSpending, m.TotalSpent)
	}
}

func TestComputeBudgetMetrics_AfterSemesterEnds(t *testing.T) {
	cfg := fallConfig(t)
	during := mustDate(t, "2025-12-01")
	purchases := weeklyMilk(during)
	after := mustDate(t, "2026-01-20")

	usage := ComputeUsageStats(purchases, cfg, after)
	m := ComputeBudgetMetrics(cfg, purchases, usage, after)
	if m.ProjectedSpending != m.TotalSpent {
		t.Fatalf("ProjectedSpending = %.2f, want TotalSpent %.2f once the semester is over", m.ProjectedSpending, m.TotalSpent)
	}
}
