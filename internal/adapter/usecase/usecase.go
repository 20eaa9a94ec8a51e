// Package usecase implements the resource services of the admin client on
// top of the backend REST API.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"mesa-admin/internal/cache"
	"mesa-admin/internal/core/port"
	"mesa-admin/internal/metrics"
)

// Cache names handed out by the registry.
const (
	cacheCampaigns   = "campaigns"
	cacheZones       = "zones"
	cacheConversions = "conversions"
	cacheStats       = "stats"
	cacheRuleTypes   = "rule_types"
	cacheTenant      = "tenant"
	cacheIdentity    = "identity"
)

// TTLs are the cache durations of the services.
type TTLs struct {
	List      time.Duration
	RuleTypes time.Duration
	Tenant    time.Duration
	Stats     time.Duration
	Identity  time.Duration
}

// DefaultTTLs are the durations used when a TTL is left zero.
var DefaultTTLs = TTLs{
	List:      5 * time.Minute,
	RuleTypes: 10 * time.Minute,
	Tenant:    5 * time.Minute,
	Stats:     5 * time.Minute,
	Identity:  30 * time.Minute,
}

// Deps are the shared dependencies of every service.
type Deps struct {
	Client  port.APIClient
	Caches  *cache.Registry
	Logger  *slog.Logger
	Metrics *metrics.Client
	TTL     TTLs
	Now     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Caches == nil {
		d.Caches = cache.NewMemoryRegistry(d.Now)
	}
	pick := func(v, def time.Duration) time.Duration {
		if v <= 0 {
			return def
		}
		return v
	}
	d.TTL = TTLs{
		List:      pick(d.TTL.List, DefaultTTLs.List),
		RuleTypes: pick(d.TTL.RuleTypes, DefaultTTLs.RuleTypes),
		Tenant:    pick(d.TTL.Tenant, DefaultTTLs.Tenant),
		Stats:     pick(d.TTL.Stats, DefaultTTLs.Stats),
		Identity:  pick(d.TTL.Identity, DefaultTTLs.Identity),
	}
	return d
}

// Services is the set of resource services sharing one client and cache
// registry.
type Services struct {
	Campaigns   *CampaignUseCase
	Zones       *ZoneUseCase
	Stats       *StatsUseCase
	Conversions *ConversionUseCase
	RuleTypes   *TargetingRuleTypeUseCase
	Tenant      *TenantUseCase
	Users       *UserUseCase
	Sync        *SyncUseCase
	Editor      *CampaignEditor

	caches *cache.Registry
}

// New wires every service.
func New(deps Deps) *Services {
	deps = deps.withDefaults()
	sync := NewSyncUseCase(deps)
	campaigns := NewCampaignUseCase(deps, sync)
	ruleTypes := NewTargetingRuleTypeUseCase(deps)
	return &Services{
		Campaigns:   campaigns,
		Zones:       NewZoneUseCase(deps, sync),
		Stats:       NewStatsUseCase(deps),
		Conversions: NewConversionUseCase(deps),
		RuleTypes:   ruleTypes,
		Tenant:      NewTenantUseCase(deps),
		Users:       NewUserUseCase(deps),
		Sync:        sync,
		Editor:      NewCampaignEditor(campaigns, ruleTypes, deps.Logger),
		caches:      deps.Caches,
	}
}

// InvalidateAll drops every cached response.
func (s *Services) InvalidateAll(ctx context.Context) {
	s.caches.InvalidateAll(ctx)
}

// getCached decodes the entry under key into out and reports whether it was
// present.
func getCached(ctx context.Context, c port.Cache, key string, out any) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.Invalidate(ctx, key)
		return false
	}
	return true
}

func setCached(ctx context.Context, c port.Cache, key string, v any, ttl time.Duration) {
	if data, err := json.Marshal(v); err == nil {
		c.Set(ctx, key, data, ttl)
	}
}
