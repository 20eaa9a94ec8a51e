package pagination

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/core/domain"
)

type recorder struct {
	total int
	calls []domain.ListOptions
	err   error
}

func (r *recorder) fetch(_ context.Context, opts domain.ListOptions) (*domain.ListResult[int], error) {
	r.calls = append(r.calls, opts)
	if r.err != nil {
		return nil, r.err
	}
	items := []int{}
	for i := (opts.Page - 1) * opts.Limit; i < opts.Page*opts.Limit && i < r.total; i++ {
		items = append(items, i)
	}
	return &domain.ListResult[int]{Items: items, Pagination: domain.Pagination{Page: opts.Page, Limit: opts.Limit, Total: r.total}}, nil
}

func fixedNow() time.Time { return time.UnixMilli(1_717_171_717_171) }

func TestMountRespectsAutoFetch(t *testing.T) {
	rec := &recorder{total: 3}
	p := New[int](rec.fetch, Options{ItemsPerPage: 2, Now: fixedNow})
	require.NoError(t, p.Mount(context.Background()))
	assert.Empty(t, rec.calls)
	assert.Equal(t, Idle, p.State())

	p = New[int](rec.fetch, Options{ItemsPerPage: 2, AutoFetch: true, Now: fixedNow})
	require.NoError(t, p.Mount(context.Background()))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, Success, p.State())
	assert.Equal(t, []int{0, 1}, p.Items())
	assert.Equal(t, 2, p.TotalPages())
}

func TestFetchBypassesCache(t *testing.T) {
	rec := &recorder{total: 1}
	p := New[int](rec.fetch, Options{Status: "active", Now: fixedNow})
	require.NoError(t, p.Refresh(context.Background()))

	got := rec.calls[0]
	assert.True(t, got.SkipCache)
	assert.Equal(t, "created_at_1717171717171", got.Sort)
	assert.Equal(t, "desc", got.Order)
	assert.Equal(t, "active", got.Status)
	assert.True(t, strings.HasPrefix(got.Sort, "created_at_"))
}

func TestSetPageBounds(t *testing.T) {
	rec := &recorder{total: 25}
	p := New[int](rec.fetch, Options{ItemsPerPage: 10, Now: fixedNow})
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, 3, p.TotalPages())

	calls := len(rec.calls)
	require.NoError(t, p.SetPage(context.Background(), 0))
	require.NoError(t, p.SetPage(context.Background(), 4))
	assert.Len(t, rec.calls, calls)
	assert.Equal(t, 1, p.CurrentPage())

	require.NoError(t, p.SetPage(context.Background(), 3))
	assert.Equal(t, 3, p.CurrentPage())
	assert.Equal(t, []int{20, 21, 22, 23, 24}, p.Items())

	require.NoError(t, p.NextPage(context.Background()))
	assert.Equal(t, 3, p.CurrentPage())
	require.NoError(t, p.PrevPage(context.Background()))
	assert.Equal(t, 2, p.CurrentPage())
}

func TestTotalPagesWithoutItems(t *testing.T) {
	rec := &recorder{}
	p := New[int](rec.fetch, Options{Now: fixedNow})
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, 0, p.TotalItems())
	assert.Equal(t, 1, p.TotalPages())
}

func TestFetchErrorKeepsItems(t *testing.T) {
	rec := &recorder{total: 2}
	p := New[int](rec.fetch, Options{Now: fixedNow})
	require.NoError(t, p.Refresh(context.Background()))

	rec.err = errors.New("boom")
	err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, Failed, p.State())
	assert.Equal(t, err, p.Err())
	assert.Equal(t, []int{0, 1}, p.Items())
}

func TestSetItems(t *testing.T) {
	rec := &recorder{total: 2}
	p := New[int](rec.fetch, Options{Now: fixedNow})
	require.NoError(t, p.Refresh(context.Background()))

	p.SetItems([]int{9})
	assert.Equal(t, []int{9}, p.Items())
	assert.Len(t, rec.calls, 1)
}

func TestStaleFetchDoesNotOverwriteNewerPage(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(_ context.Context, opts domain.ListOptions) (*domain.ListResult[int], error) {
		if opts.Page == 1 {
			close(started)
			<-release
		}
		return &domain.ListResult[int]{
			Items:      []int{opts.Page * 10},
			Pagination: domain.Pagination{Page: opts.Page, Limit: 1, Total: 5},
		}, nil
	}
	p := New[int](fetch, Options{ItemsPerPage: 1, Now: fixedNow})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- p.FetchItems(ctx, true, 1) }()
	<-started

	require.NoError(t, p.FetchItems(ctx, true, 2))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, 2, p.CurrentPage())
	assert.Equal(t, []int{20}, p.Items())
	assert.Equal(t, Success, p.State())
}
