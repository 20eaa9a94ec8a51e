// Package pagination drives paginated list views.
package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mesa-admin/internal/core/domain"
)

// State is the lifecycle of the current fetch.
type State int

const (
	Idle State = iota
	Loading
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// FetchFunc loads one page.
type FetchFunc[T any] func(ctx context.Context, opts domain.ListOptions) (*domain.ListResult[T], error)

// Options configures a Paginator.
type Options struct {
	ItemsPerPage int
	Sort         string
	Order        string
	Status       string
	Search       string
	Filters      map[string]any
	// AutoFetch makes Mount load the first page. Leave it off when the
	// caller decides when the first fetch happens.
	AutoFetch bool
	Now       func() time.Time
}

// Paginator holds the items of the current page and the pagination
// controls. Every fetch bypasses the service cache and carries a fresh
// cache-busting sort suffix so the list always reflects the backend.
type Paginator[T any] struct {
	fetch FetchFunc[T]
	opts  Options

	mu          sync.Mutex
	state       State
	items       []T
	currentPage int
	totalItems  int
	err         error
	// gen counts started fetches; only the latest may store its result.
	gen uint64
}

// New returns an idle paginator on page 1.
func New[T any](fetch FetchFunc[T], opts Options) *Paginator[T] {
	if opts.ItemsPerPage <= 0 {
		opts.ItemsPerPage = 10
	}
	if opts.Sort == "" {
		opts.Sort = "created_at"
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Paginator[T]{fetch: fetch, opts: opts, currentPage: 1}
}

// Mount performs the first fetch when AutoFetch is set.
func (p *Paginator[T]) Mount(ctx context.Context) error {
	if !p.opts.AutoFetch {
		return nil
	}
	return p.FetchItems(ctx, false, 0)
}

// FetchItems loads page, or the current page when page is 0. Without force
// it does nothing while another fetch is in flight. When fetches overlap
// only the most recently started one updates the paginator.
func (p *Paginator[T]) FetchItems(ctx context.Context, force bool, page int) error {
	p.mu.Lock()
	if p.state == Loading && !force {
		p.mu.Unlock()
		return nil
	}
	if page <= 0 {
		page = p.currentPage
	}
	p.state = Loading
	p.err = nil
	p.gen++
	gen := p.gen
	opts := domain.ListOptions{
		Page:      page,
		Limit:     p.opts.ItemsPerPage,
		Status:    p.opts.Status,
		Sort:      fmt.Sprintf("%s_%d", p.opts.Sort, p.opts.Now().UnixMilli()),
		Order:     p.opts.Order,
		Search:    p.opts.Search,
		Filters:   p.opts.Filters,
		SkipCache: true,
	}
	p.mu.Unlock()

	res, err := p.fetch(ctx, opts)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return err
	}
	if err != nil {
		p.state = Failed
		p.err = err
		return err
	}
	p.state = Success
	p.items = res.Items
	p.totalItems = res.Pagination.Total
	p.currentPage = page
	return nil
}

// Refresh force-fetches the current page.
func (p *Paginator[T]) Refresh(ctx context.Context) error {
	return p.FetchItems(ctx, true, 0)
}

// SetPage moves to page and fetches it. Pages outside [1, TotalPages] are
// ignored.
func (p *Paginator[T]) SetPage(ctx context.Context, page int) error {
	if page < 1 || page > p.TotalPages() {
		return nil
	}
	return p.FetchItems(ctx, true, page)
}

// NextPage moves forward one page if there is one.
func (p *Paginator[T]) NextPage(ctx context.Context) error {
	return p.SetPage(ctx, p.CurrentPage()+1)
}

// PrevPage moves back one page if there is one.
func (p *Paginator[T]) PrevPage(ctx context.Context) error {
	return p.SetPage(ctx, p.CurrentPage()-1)
}

// SetItems replaces the items of the current page without a fetch, for
// optimistic updates.
func (p *Paginator[T]) SetItems(items []T) {
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
}

// Items returns the items of the current page.
func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items
}

// CurrentPage is the last successfully fetched page.
func (p *Paginator[T]) CurrentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPage
}

// TotalItems is the total reported by the last successful fetch.
func (p *Paginator[T]) TotalItems() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalItems
}

// TotalPages is ceil(TotalItems/ItemsPerPage), and at least 1.
func (p *Paginator[T]) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	pages := (p.totalItems + p.opts.ItemsPerPage - 1) / p.opts.ItemsPerPage
	if pages < 1 {
		return 1
	}
	return pages
}

// IsLoading reports whether a fetch is in flight.
func (p *Paginator[T]) IsLoading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == Loading
}

// State returns the fetch state.
func (p *Paginator[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err is the error of the last fetch, if it failed.
func (p *Paginator[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
