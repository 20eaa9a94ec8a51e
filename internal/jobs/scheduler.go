// Package jobs runs the devserver's background jobs on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"mesa-admin/internal/metrics"
)

// CampaignCompleter is the store operation the expiry job runs.
type CampaignCompleter interface {
	CompleteExpiredCampaigns(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	store   CampaignCompleter
	logger  *slog.Logger
	metrics *metrics.Server
	now     func() time.Time
	timeout time.Duration
}

// NewScheduler builds a scheduler that completes campaigns past their end date.
func NewScheduler(store CampaignCompleter, logger *slog.Logger, m *metrics.Server, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		store:   store,
		logger:  logger,
		metrics: m,
		now:     now,
		timeout: 30 * time.Second,
	}
}

// ScheduleCompletion registers the expiry job under spec, e.g. "@every 1m".
func (s *Scheduler) ScheduleCompletion(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runCompletion); err != nil {
		return fmt.Errorf("schedule campaign completion %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) runCompletion() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.CompleteExpired(ctx); err != nil {
		s.logger.Error("complete expired campaigns", slog.Any("error", err))
	}
}

// CompleteExpired moves active and paused campaigns whose end date passed to
// completed and returns how many changed.
func (s *Scheduler) CompleteExpired(ctx context.Context) (int64, error) {
	n, err := s.store.CompleteExpiredCampaigns(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("campaigns completed", slog.Int64("count", n))
		if s.metrics != nil {
			s.metrics.CompletedCampaigns.Add(float64(n))
		}
	}
	return n, nil
}

// Start runs the registered jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
