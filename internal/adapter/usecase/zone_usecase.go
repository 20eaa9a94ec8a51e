package usecase

import (
	"context"
	"log/slog"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
	"mesa-admin/internal/listservice"
)

const activeZonesKey = "active_zones"

// ZoneUseCase manages publisher zones.
type ZoneUseCase struct {
	client port.APIClient
	list   *listservice.Service[domain.Zone]
	sync   *SyncUseCase
	logger *slog.Logger
}

// NewZoneUseCase builds the zone service. sync may be nil.
func NewZoneUseCase(deps Deps, sync *SyncUseCase) *ZoneUseCase {
	deps = deps.withDefaults()
	return &ZoneUseCase{
		client: deps.Client,
		list: listservice.New[domain.Zone](deps.Client, deps.Caches.Named(cacheZones), listservice.Config{
			Name:          cacheZones,
			Endpoint:      "/api/zones",
			CacheDuration: deps.TTL.List,
			KeyFunc:       listservice.ActiveResourceKey(activeZonesKey),
			Logger:        deps.Logger,
			Metrics:       deps.Metrics,
		}),
		sync:   sync,
		logger: deps.Logger,
	}
}

func zonePath(id domain.ZoneID) string {
	return "/api/zones/" + id.String()
}

// List returns one page of zones.
func (u *ZoneUseCase) List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult[domain.Zone], error) {
	return u.list.Fetch(ctx, opts)
}

// Get returns a single zone.
func (u *ZoneUseCase) Get(ctx context.Context, id domain.ZoneID) (*domain.Zone, error) {
	var z domain.Zone
	if err := u.client.Get(ctx, zonePath(id), &z); err != nil {
		return nil, err
	}
	return &z, nil
}

// ActiveCount returns the number of active zones, or zero on failure.
func (u *ZoneUseCase) ActiveCount(ctx context.Context) int {
	res, err := u.list.Fetch(ctx, domain.ListOptions{
		Page:   1,
		Limit:  1,
		Status: string(domain.ZoneActive),
		Sort:   "created_at",
		Order:  "desc",
	})
	if err != nil {
		u.logger.Warn("active zone count failed", slog.Any("error", err))
		return 0
	}
	return res.Pagination.Total
}

// Create validates in, creates a zone and syncs it.
func (u *ZoneUseCase) Create(ctx context.Context, in domain.ZoneInput) (*domain.Zone, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	var z domain.Zone
	if err := u.client.Post(ctx, "/api/zones", in, &z); err != nil {
		return nil, err
	}
	u.afterWrite(ctx, z.ID)
	return &z, nil
}

// Update validates in, replaces the zone and syncs it.
func (u *ZoneUseCase) Update(ctx context.Context, id domain.ZoneID, in domain.ZoneInput) (*domain.Zone, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	var z domain.Zone
	if err := u.client.Put(ctx, zonePath(id), in, &z); err != nil {
		return nil, err
	}
	u.afterWrite(ctx, id)
	return &z, nil
}

// SetStatus activates or deactivates a zone.
func (u *ZoneUseCase) SetStatus(ctx context.Context, z domain.Zone, status domain.ZoneStatus) (*domain.Zone, error) {
	in := z.Input()
	in.Status = status
	return u.Update(ctx, z.ID, in)
}

// Delete removes an inactive zone. Active zones are refused before any
// request is made.
func (u *ZoneUseCase) Delete(ctx context.Context, id domain.ZoneID) error {
	z, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if z.Status == domain.ZoneActive {
		return domain.BusinessError(domain.ErrZoneActive)
	}
	if err := u.client.Delete(ctx, zonePath(id), nil); err != nil {
		return err
	}
	u.list.InvalidateCache(ctx)
	return nil
}

func (u *ZoneUseCase) afterWrite(ctx context.Context, id domain.ZoneID) {
	u.list.InvalidateCache(ctx)
	if u.sync != nil && id != "" {
		u.sync.zoneBestEffort(ctx, id)
	}
}
