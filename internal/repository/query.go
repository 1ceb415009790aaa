package repository

import (
	"fmt"
	"sort"
	"strings"
)

// ListQuery is the filter/order/limit primitive shared by the list
// endpoints.  Where keys and OrderBy are JSON field names (e.g.
// "itemName"); each repository maps them onto columns through a whitelist so
// no caller text is ever spliced into SQL.
type ListQuery struct {
	Where   map[string]any
	OrderBy string
	Desc    bool
	Limit   int
}

// build renders q as " WHERE ... ORDER BY ... LIMIT n".  cols maps field
// names to columns; fallback is the ORDER BY used when q.OrderBy is empty.
func (q ListQuery) build(cols map[string]string, fallback string) (string, []any, error) {
	var (
		b    strings.Builder
		args []any
	)
	if len(q.Where) > 0 {
		keys := make([]string, 0, len(q.Where))
		for k := range q.Where {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		conds := make([]string, 0, len(keys))
		for _, k := range keys {
			col, ok := cols[k]
			if !ok {
				return "", nil, fmt.Errorf("%w: unknown field %q", ErrInvalidQuery, k)
			}
			conds = append(conds, col+" = ?")
			args = append(args, q.Where[k])
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	order := fallback
	if q.OrderBy != "" {
		col, ok := cols[q.OrderBy]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown order field %q", ErrInvalidQuery, q.OrderBy)
		}
		order = col
		if q.Desc {
			order += " DESC"
		}
	}
	if order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), args, nil
}
