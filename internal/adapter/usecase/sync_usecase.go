package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
)

// SyncUseCase pushes campaigns and zones to the edge KV store.
type SyncUseCase struct {
	client port.APIClient
	logger *slog.Logger
}

// NewSyncUseCase builds the edge sync service.
func NewSyncUseCase(deps Deps) *SyncUseCase {
	deps = deps.withDefaults()
	return &SyncUseCase{client: deps.Client, logger: deps.Logger}
}

// State returns the sync summary of the tenant.
func (u *SyncUseCase) State(ctx context.Context) (*domain.SyncState, error) {
	var state domain.SyncState
	if err := u.client.Get(ctx, "/api/sync/state", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Campaign syncs one campaign.
func (u *SyncUseCase) Campaign(ctx context.Context, id int64) error {
	return u.client.Post(ctx, "/api/sync/campaigns/"+strconv.FormatInt(id, 10), nil, nil)
}

// Zone syncs one zone.
func (u *SyncUseCase) Zone(ctx context.Context, id domain.ZoneID) error {
	return u.client.Post(ctx, "/api/sync/zones/"+id.String(), nil, nil)
}

// campaignBestEffort syncs after a successful write. The write already
// happened, so failures are only logged.
func (u *SyncUseCase) campaignBestEffort(ctx context.Context, id int64) {
	if err := u.Campaign(ctx, id); err != nil {
		u.logger.Warn("campaign kv sync failed", slog.Int64("campaign_id", id), slog.Any("error", err))
	}
}

func (u *SyncUseCase) zoneBestEffort(ctx context.Context, id domain.ZoneID) {
	if err := u.Zone(ctx, id); err != nil {
		u.logger.Warn("zone kv sync failed", slog.String("zone_id", id.String()), slog.Any("error", err))
	}
}
