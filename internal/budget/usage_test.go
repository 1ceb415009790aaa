package budget

import (
	"reflect"
	"testing"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

func TestComputeUsageStats_IgnoresOneTimePurchases(t *testing.T) {
	cfg := fallConfig(t)
	now := mustDate(t, "2025-10-06")
	purchases := []model.Purchase{
		{ItemName: "Grill", Cost: 400, Quantity: 1, PurchaseFrequency: model.FrequencyOnce},
		{ItemName: "Plates", Cost: 60, Quantity: 2, PurchaseFrequency: ""},
	}
	if got := ComputeUsageStats(purchases, cfg, now); len(got) != 0 {
		t.Fatalf("usage stats = %+v, want empty", got)
	}
}

func TestComputeUsageStats_NilConfig(t *testing.T) {
	now := mustDate(t, "2025-10-06")
	if got := ComputeUsageStats(weeklyMilk(now), nil, now); len(got) != 0 {
		t.Fatalf("usage stats = %+v, want empty", got)
	}
}

func TestComputeUsageStats_CaseInsensitiveGrouping(t *testing.T) {
	cfg := fallConfig(t)
	now := mustDate(t, "2025-10-06")
	purchases := []model.Purchase{
		{ItemName: "Milk", Cost: 10, Quantity: 2, PurchaseFrequency: model.FrequencyRecurring, IsActiveForProjection: true},
		{ItemName: "milk ", Cost: 20, Quantity: 3, PurchaseFrequency: model.FrequencyMonthly, IsActiveForProjection: true},
	}
	got := ComputeUsageStats(purchases, cfg, now)
	if len(got) != 1 {
		t.Fatalf("len(usage) = %d, want 1: %+v", len(got), got)
	}
	s, ok := got["milk"]
	if !ok {
		t.Fatalf("missing lowercase key: %+v", got)
	}
	if s.ItemName != "Milk" {
		t.Errorf("ItemName = %q, want first-seen casing %q", s.ItemName, "Milk")
	}
	if s.TotalQuantity != 5 || s.TotalCost != 30 {
		t.Errorf("totals = %d units / %.2f, want 5 / 30.00", s.TotalQuantity, s.TotalCost)
	}
	if s.AvgCost != 6 {
		t.Errorf("AvgCost = %.2f, want 6.00", s.AvgCost)
	}
	if s.AvgWeeklyCount != 1 {
		t.Errorf("AvgWeeklyCount = %.2f, want 1.00 over five weeks", s.AvgWeeklyCount)
	}
}

func TestComputeUsageStats_FloorsWindowToOneWeek(t *testing.T) {
	cfg := fallConfig(t)
	purchases := []model.Purchase{
		{ItemName: "Bread", Cost: 9, Quantity: 3, PurchaseFrequency: model.FrequencyRecurring, IsActiveForProjection: true},
	}
	tests := []struct {
		name string
		now  string
	}{
		{"two days in", "2025-09-03"},
		{"before start", "2025-08-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeUsageStats(purchases, cfg, mustDate(t, tt.now))
			if got["bread"].AvgWeeklyCount != 3 {
				t.Fatalf("AvgWeeklyCount = %.2f, want 3.00", got["bread"].AvgWeeklyCount)
			}
		})
	}
}

func TestComputeUsageStats_WindowCapsAtSemesterEnd(t *testing.T) {
	cfg := fallConfig(t) // 105 days = 15 weeks
	purchases := []model.Purchase{
		{ItemName: "Coffee", Cost: 150, Quantity: 30, PurchaseFrequency: model.FrequencyBiWeekly, IsActiveForProjection: true},
	}
	got := ComputeUsageStats(purchases, cfg, mustDate(t, "2026-03-01"))
	if got["coffee"].AvgWeeklyCount != 2 {
		t.Fatalf("AvgWeeklyCount = %.2f, want 2.00", got["coffee"].AvgWeeklyCount)
	}
}

func TestComputeUsageStats_ZeroQuantityGuard(t *testing.T) {
	cfg := fallConfig(t)
	purchases := []model.Purchase{
		{ItemName: "Ghost", Cost: 5, Quantity: 0, PurchaseFrequency: model.FrequencyRecurring},
	}
	got := ComputeUsageStats(purchases, cfg, mustDate(t, "2025-10-06"))
	if got["ghost"].AvgCost != 0 || got["ghost"].AvgWeeklyCount != 0 {
		t.Fatalf("zero-quantity stat = %+v, want zero averages", got["ghost"])
	}
}

func TestStockItems(t *testing.T) {
	purchases := []model.Purchase{
		{ItemName: "Milk", PurchaseFrequency: model.FrequencyRecurring, IsActiveForProjection: true, IsStockItem: true},
		{ItemName: "milk", PurchaseFrequency: model.FrequencyRecurring, IsActiveForProjection: true, IsStockItem: true},
		{ItemName: "Eggs", PurchaseFrequency: model.FrequencyWeekly, IsActiveForProjection: true, IsStockItem: true},
		{ItemName: "Almond Milk", PurchaseFrequency: model.FrequencyRecurring, IsActiveForProjection: false, IsStockItem: true},
		{ItemName: "Bread", PurchaseFrequency: model.FrequencyRecurring, IsActiveForProjection: true, IsStockItem: false},
		{ItemName: "Grill", PurchaseFrequency: model.FrequencyOnce, IsActiveForProjection: true, IsStockItem: true},
	}

	if got, want := StockItems(purchases, ""), []string{"Eggs", "Milk"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("StockItems = %v, want %v", got, want)
	}
	if got, want := StockItems(purchases, "MIL"), []string{"Milk"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("StockItems(MIL) = %v, want %v", got, want)
	}
}

func TestSortedUsage(t *testing.T) {
	stats := map[string]UsageStat{
		"milk":  {ItemName: "Milk"},
		"bread": {ItemName: "bread"},
		"eggs":  {ItemName: "Eggs"},
	}
	got := SortedUsage(stats)
	names := []string{got[0].ItemName, got[1].ItemName, got[2].ItemName}
	if want := []string{"bread", "Eggs", "Milk"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("order = %v, want %v", names, want)
	}
}
