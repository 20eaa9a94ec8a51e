package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/adapter/memory"
	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/metrics"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingStore struct{}

func (failingStore) CompleteExpiredCampaigns(context.Context, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestCompleteExpiredCountsCampaigns(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := memory.New(func() time.Time { return now })
	ctx := context.Background()

	for _, end := range []time.Time{now.Add(-time.Hour), now.Add(time.Hour)} {
		_, err := store.CreateCampaign(ctx, "acme", domain.CampaignInput{
			Name:         "Campaign",
			RedirectURL:  "https://example.com",
			StartDate:    now.Add(-48 * time.Hour).UnixMilli(),
			EndDate:      domain.MillisPtr(end),
			PaymentModel: domain.PaymentCPM,
		})
		require.NoError(t, err)
	}

	m := metrics.NewServer(nil)
	s := NewScheduler(store, discard, m, func() time.Time { return now })

	n, err := s.CompleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompletedCampaigns))

	n, err = s.CompleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompletedCampaigns))
}

func TestCompleteExpiredPropagatesStoreError(t *testing.T) {
	s := NewScheduler(failingStore{}, discard, nil, nil)
	_, err := s.CompleteExpired(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestScheduleCompletionRejectsBadSpec(t *testing.T) {
	s := NewScheduler(failingStore{}, discard, nil, nil)
	assert.Error(t, s.ScheduleCompletion("every minute"))
	assert.NoError(t, s.ScheduleCompletion("@every 1m"))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
