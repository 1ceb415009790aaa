// Package budget computes semester budget status, spending projections and
// per-item usage rates from a semester configuration and the purchase
// ledger.  Every function here is a pure transform: callers fetch fresh
// snapshots, pass the current time explicitly, and get new values back.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

const week = 7 * 24 * time.Hour

// UsageStat summarizes how quickly one recurring item is bought.
type UsageStat struct {
	ItemName       string  `json:"itemName"` // first-seen casing
	AvgWeeklyCount float64 `json:"avgWeeklyCount"`
	AvgCost        float64 `json:"avgCost"` // per unit
	IsActive       bool    `json:"isActive"`
	TotalQuantity  int64   `json:"totalQuantity"`
	TotalCost      float64 `json:"totalCost"`
}

// ComputeUsageStats estimates, per recurring item, the mean number of units
// bought per week over the elapsed part of the semester and the mean cost
// per unit.  The result is keyed by model.ItemKey.  One-time purchases are
// ignored, and so is the granularity of legacy frequency values.
//
// The observation window runs from the semester start to the earlier of
// now and the semester end, and is never shorter than one week.
func ComputeUsageStats(purchases []model.Purchase, cfg *model.SemesterConfig, now time.Time) map[string]UsageStat {
	stats := make(map[string]UsageStat)
	if !cfg.HasDates() {
		return stats
	}

	type group struct {
		name   string
		qty    int64
		cost   decimal.Decimal
		active bool
	}
	groups := make(map[string]*group)
	for _, p := range purchases {
		if !p.PurchaseFrequency.IsRecurring() {
			continue
		}
		key := model.ItemKey(p.ItemName)
		g, ok := groups[key]
		if !ok {
			// the first member decides display name and active flag; the flag
			// is toggled in bulk by name so members agree in practice
			g = &group{name: p.ItemName, cost: decimal.Zero, active: p.IsActiveForProjection}
			groups[key] = g
		}
		g.qty += int64(p.Quantity)
		g.cost = g.cost.Add(decimal.NewFromFloat(p.Cost))
	}
	if len(groups) == 0 {
		return stats
	}

	weeks := weeksPassed(cfg, now)
	for key, g := range groups {
		qty := decimal.NewFromInt(g.qty)
		avgCost := decimal.Zero
		if g.qty != 0 {
			avgCost = g.cost.Div(qty)
		}
		stats[key] = UsageStat{
			ItemName:       g.name,
			AvgWeeklyCount: qty.Div(weeks).Round(2).InexactFloat64(),
			AvgCost:        avgCost.Round(2).InexactFloat64(),
			IsActive:       g.active,
			TotalQuantity:  g.qty,
			TotalCost:      g.cost.Round(2).InexactFloat64(),
		}
	}
	return stats
}

// weeksPassed is the elapsed observation window in weeks, floored to 1 so
// that a semester that just started (or a clock that reads earlier than the
// start date) never divides by zero or a negative number.
func weeksPassed(cfg *model.SemesterConfig, now time.Time) decimal.Decimal {
	until := now
	if cfg.EndDate.Before(until) {
		until = cfg.EndDate
	}
	weeks := durationInWeeks(until.Sub(cfg.StartDate))
	one := decimal.NewFromInt(1)
	if weeks.LessThan(one) {
		return one
	}
	return weeks
}

func durationInWeeks(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).Div(decimal.NewFromInt(int64(week)))
}
