package listservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/cache"
	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port/mocks"
)

func fillZones(total int) func(context.Context, string, any) {
	return func(_ context.Context, _ string, out any) {
		res := out.(*domain.ListResult[domain.Zone])
		res.Items = []domain.Zone{{ID: "z1", Name: "Homepage", Status: domain.ZoneActive}}
		res.Pagination = domain.Pagination{Page: 1, Limit: 1, Total: total, TotalPages: total}
	}
}

func TestFetchActiveFirstPageHitsNetworkOnce(t *testing.T) {
	client := mocks.NewMockAPIClient(t)
	client.EXPECT().
		Get(mock.Anything, "/api/zones?limit=1&order=desc&page=1&sort=created_at&status=active", mock.Anything).
		Run(fillZones(7)).
		Return(nil).
		Once()

	svc := New[domain.Zone](client, cache.NewMemory(nil), Config{
		Name:     "zones",
		Endpoint: "/api/zones",
		KeyFunc:  ActiveResourceKey("active_zones"),
	})
	opts := domain.ListOptions{Page: 1, Limit: 1, Status: "active", Sort: "created_at", Order: "desc"}

	first, err := svc.Fetch(context.Background(), opts)
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 7, first.Pagination.Total)
	assert.Equal(t, first, second)
}

func TestFetchSkipCacheAlwaysRequests(t *testing.T) {
	client := mocks.NewMockAPIClient(t)
	client.EXPECT().
		Get(mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(fillZones(3)).
		Return(nil).
		Times(2)

	svc := New[domain.Zone](client, cache.NewMemory(nil), Config{Endpoint: "/api/zones"})
	opts := domain.ListOptions{Page: 2, Limit: 10, SkipCache: true}

	_, err := svc.Fetch(context.Background(), opts)
	require.NoError(t, err)
	_, err = svc.Fetch(context.Background(), opts)
	require.NoError(t, err)
}

func TestFetchRefetchesAfterTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	client := mocks.NewMockAPIClient(t)
	client.EXPECT().
		Get(mock.Anything, mock.Anything, mock.Anything).
		Run(fillZones(1)).
		Return(nil).
		Times(2)

	svc := New[domain.Zone](client, cache.NewMemory(clock), Config{Endpoint: "/api/zones"})
	opts := domain.ListOptions{Page: 1, Limit: 10}

	_, err := svc.Fetch(context.Background(), opts)
	require.NoError(t, err)
	now = now.Add(DefaultCacheDuration)
	_, err = svc.Fetch(context.Background(), opts)
	require.NoError(t, err)
}

func TestFetchErrorIsNotCached(t *testing.T) {
	client := mocks.NewMockAPIClient(t)
	client.EXPECT().
		Get(mock.Anything, mock.Anything, mock.Anything).
		Return(domain.NewError(domain.KindNetwork, "connection refused", nil)).
		Once()
	client.EXPECT().
		Get(mock.Anything, mock.Anything, mock.Anything).
		Run(fillZones(1)).
		Return(nil).
		Once()

	svc := New[domain.Zone](client, cache.NewMemory(nil), Config{Endpoint: "/api/zones"})
	_, err := svc.Fetch(context.Background(), domain.ListOptions{})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNetwork))

	res, err := svc.Fetch(context.Background(), domain.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestActiveResourceKey(t *testing.T) {
	key := ActiveResourceKey("active_campaigns")

	assert.Equal(t, "active_campaigns", key(domain.ListOptions{Page: 1, Limit: 1, Status: "active", Sort: "created_at", Order: "desc"}))
	assert.Equal(t, "active_campaigns", key(domain.ListOptions{Page: 1, Limit: 10, Status: "active", Sort: "created_at_1717171717171", Order: "desc"}))
	assert.NotEqual(t, "active_campaigns", key(domain.ListOptions{Page: 2, Limit: 10, Status: "active", Sort: "created_at", Order: "desc"}))
	assert.NotEqual(t, "active_campaigns", key(domain.ListOptions{Page: 1, Status: "paused", Sort: "created_at", Order: "desc"}))
}

func TestSimpleKeyIsDeterministic(t *testing.T) {
	a := SimpleKey(domain.ListOptions{Page: 1, Limit: 10, Filters: map[string]any{"campaign_id": 4, "zone_id": "z1"}})
	b := SimpleKey(domain.ListOptions{Limit: 10, Page: 1, Filters: map[string]any{"zone_id": "z1", "campaign_id": 4}})
	assert.Equal(t, a, b)
	assert.Equal(t, `{"campaign_id":"4","limit":"10","page":"1","zone_id":"z1"}`, a)
}
