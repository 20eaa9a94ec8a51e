package domain

import "strconv"

// Pagination describes the page a list response belongs to.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListResult is the envelope of every paginated list endpoint.
type ListResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ListOptions are the options accepted by list endpoints. SkipCache forces a
// network round trip; it never reaches the wire.
type ListOptions struct {
	Page      int            `json:"page,omitempty"`
	Limit     int            `json:"limit,omitempty"`
	Status    string         `json:"status,omitempty"`
	Sort      string         `json:"sort,omitempty"`
	Order     string         `json:"order,omitempty"`
	Search    string         `json:"search,omitempty"`
	Filters   map[string]any `json:"filters,omitempty"`
	SkipCache bool           `json:"-"`
}

// Params flattens o into query parameters. Zero values are returned as nil so
// the query builder drops them.
func (o ListOptions) Params() map[string]any {
	params := make(map[string]any, 6+len(o.Filters))
	for k, v := range o.Filters {
		params[k] = v
	}
	params["page"] = nonZeroInt(o.Page)
	params["limit"] = nonZeroInt(o.Limit)
	params["status"] = nonEmpty(o.Status)
	params["sort"] = nonEmpty(o.Sort)
	params["order"] = nonEmpty(o.Order)
	params["search"] = nonEmpty(o.Search)
	return params
}

func nonZeroInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func nonEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Bounds returns the effective page and limit of o as a backend applies
// them: page at least 1, limit defaulted and capped.
func (o ListOptions) Bounds() (page, limit int) {
	page, limit = o.Page, o.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Int64Filter reads an integer filter that may arrive as a number or as a
// query string value.
func (o ListOptions) Int64Filter(key string) (int64, bool) {
	switch t := o.Filters[key].(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	}
	return 0, false
}
