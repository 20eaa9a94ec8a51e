package listservice

import (
	"encoding/json"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/query"
)

// KeyFunc derives a cache key from list options.
type KeyFunc func(opts domain.ListOptions) string

// SimpleKey is a deterministic encoding of the options' query parameters.
// encoding/json sorts map keys, so equal options always produce equal keys.
func SimpleKey(opts domain.ListOptions) string {
	params := make(map[string]any)
	for k, v := range opts.Params() {
		if s, ok := query.Encode(v); ok {
			params[k] = s
		}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	return string(b)
}

// ActiveResourceKey collapses "first page of active items, newest first"
// requests onto fixed, whatever their limit or cache-busting sort suffix, so
// summary counts and the first content page share an entry. Every other
// request falls back to SimpleKey.
func ActiveResourceKey(fixed string) KeyFunc {
	return func(opts domain.ListOptions) string {
		if IsActiveFirstPage(opts) {
			return fixed
		}
		return SimpleKey(opts)
	}
}

// IsActiveFirstPage reports whether opts asks for the first page of active
// items sorted by creation date descending.
func IsActiveFirstPage(opts domain.ListOptions) bool {
	if opts.Status != string(domain.CampaignActive) || opts.Page > 1 || opts.Order != "desc" {
		return false
	}
	sort, _ := query.StripSortSuffix(opts.Sort)
	return sort == "created_at" && len(opts.Filters) == 0 && opts.Search == ""
}
