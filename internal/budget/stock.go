package budget

import (
	"sort"
	"strings"

	"github.com/iliyamo/stewardship-hub/internal/model"
)

// StockItems lists the items members see as currently stocked: recurring
// purchases that are active for projection and flagged as stock items.
// Names are de-duplicated case-insensitively (first-seen casing wins),
// filtered by a case-insensitive substring search and sorted.
func StockItems(purchases []model.Purchase, search string) []string {
	search = strings.ToLower(strings.TrimSpace(search))
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range purchases {
		if !p.PurchaseFrequency.IsRecurring() || !p.IsActiveForProjection || !p.IsStockItem {
			continue
		}
		key := model.ItemKey(p.ItemName)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if search != "" && !strings.Contains(key, search) {
			continue
		}
		out = append(out, strings.TrimSpace(p.ItemName))
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// SortedUsage returns usage stats as a slice ordered by display name, for
// reports and JSON lists where map order would be unstable.
func SortedUsage(stats map[string]UsageStat) []UsageStat {
	out := make([]UsageStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].ItemName) < strings.ToLower(out[j].ItemName)
	})
	return out
}
