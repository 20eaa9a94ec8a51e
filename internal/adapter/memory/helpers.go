package memory

import (
	"cmp"
	"slices"
	"strconv"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/query"
)

// sortBy orders items by the requested field, newest first by default. Ties
// fall back to id so pages are stable.
func sortBy[T any](items []T, opts domain.ListOptions, key func(T, string) any, id func(T) int64) {
	field, _ := query.StripSortSuffix(opts.Sort)
	if field == "" {
		field = "created_at"
	}
	desc := opts.Order != "asc"

	slices.SortStableFunc(items, func(a, b T) int {
		c := compareAny(key(a, field), key(b, field))
		if c == 0 {
			c = cmp.Compare(id(a), id(b))
		}
		if desc {
			return -c
		}
		return c
	})
}

func compareAny(a, b any) int {
	switch x := a.(type) {
	case int64:
		return cmp.Compare(x, b.(int64))
	case string:
		return cmp.Compare(x, b.(string))
	}
	return 0
}

// paginate cuts the requested page out of items and returns it with the
// total count.
func paginate[T any](items []T, opts domain.ListOptions) ([]T, int) {
	page, limit := opts.Bounds()
	total := len(items)
	start := (page - 1) * limit
	if start >= total {
		return []T{}, total
	}
	end := min(start+limit, total)
	return items[start:end], total
}

// groupStats folds rows by day, campaign or zone. Unknown groupings fold by
// day.
func groupStats(rows []domain.StatsRow, groupBy string) []domain.StatsRow {
	keyOf := func(r domain.StatsRow) string { return r.Date }
	switch groupBy {
	case "campaign":
		keyOf = func(r domain.StatsRow) string { return strconv.FormatInt(r.CampaignID, 10) }
	case "zone":
		keyOf = func(r domain.StatsRow) string {
			if r.ZoneID == nil {
				return ""
			}
			return r.ZoneID.String()
		}
	}

	byKey := make(map[string]*domain.StatsRow)
	keys := make([]string, 0)
	for _, r := range rows {
		k := keyOf(r)
		acc, ok := byKey[k]
		if !ok {
			acc = &domain.StatsRow{}
			switch groupBy {
			case "campaign":
				acc.CampaignID = r.CampaignID
			case "zone":
				acc.ZoneID = r.ZoneID
			default:
				acc.Date = r.Date
			}
			byKey[k] = acc
			keys = append(keys, k)
		}
		acc.Impressions += r.Impressions
		acc.Clicks += r.Clicks
		acc.Conversions += r.Conversions
		acc.Spend = acc.Spend.Add(r.Spend)
	}
	slices.Sort(keys)

	out := make([]domain.StatsRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}
