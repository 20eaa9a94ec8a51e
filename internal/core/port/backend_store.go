package port

import (
	"context"
	"time"

	"mesa-admin/internal/core/domain"
)

// BackendStore is the persistence port of the development backend. Every
// method is scoped to a tenant namespace. Lookups of missing rows return
// domain.ErrNotFound. Implementations must be safe for concurrent use.
type BackendStore interface {
	ListCampaigns(ctx context.Context, tenant string, opts domain.ListOptions) ([]domain.Campaign, int, error)
	GetCampaign(ctx context.Context, tenant string, id int64) (*domain.Campaign, error)
	CreateCampaign(ctx context.Context, tenant string, in domain.CampaignInput) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, tenant string, id int64, in domain.CampaignInput) (*domain.Campaign, error)
	DeleteCampaign(ctx context.Context, tenant string, id int64) error
	// CompleteExpiredCampaigns moves every active or paused campaign whose
	// end date is before now to completed and returns how many changed.
	CompleteExpiredCampaigns(ctx context.Context, now time.Time) (int64, error)

	ListTargetingRules(ctx context.Context, tenant string, campaignID int64) ([]domain.TargetingRule, error)
	// ReplaceTargetingRules swaps the campaign's whole rule set.
	ReplaceTargetingRules(ctx context.Context, tenant string, campaignID int64, rules []domain.TargetingRule) error
	ListTargetingRuleTypes(ctx context.Context) ([]domain.TargetingRuleType, error)

	ListPayoutRules(ctx context.Context, tenant string, campaignID int64) ([]domain.PayoutRule, error)
	// CreatePayoutRule fails with domain.ErrDuplicatePayout when a rule for
	// the same zone (or the global rule) already exists.
	CreatePayoutRule(ctx context.Context, tenant string, campaignID int64, in domain.PayoutRuleInput) (*domain.PayoutRule, error)
	DeletePayoutRule(ctx context.Context, tenant string, campaignID int64, zoneID *domain.ZoneID) error

	ListZones(ctx context.Context, tenant string, opts domain.ListOptions) ([]domain.Zone, int, error)
	GetZone(ctx context.Context, tenant string, id domain.ZoneID) (*domain.Zone, error)
	CreateZone(ctx context.Context, tenant string, in domain.ZoneInput) (*domain.Zone, error)
	UpdateZone(ctx context.Context, tenant string, id domain.ZoneID, in domain.ZoneInput) (*domain.Zone, error)
	DeleteZone(ctx context.Context, tenant string, id domain.ZoneID) error

	Stats(ctx context.Context, tenant string, q domain.StatsQuery) (*domain.Stats, error)
	ListConversions(ctx context.Context, tenant string, opts domain.ListOptions) ([]domain.Conversion, int, error)

	GetTenant(ctx context.Context, tenant string) (*domain.TenantSettings, error)
	UpdateTenant(ctx context.Context, tenant string, settings domain.TenantSettings) error

	ListKeys(ctx context.Context, tenant string) ([]domain.APIKey, error)
	CreateKey(ctx context.Context, tenant string, key domain.APIKey) error
	DeleteKey(ctx context.Context, tenant string, token string) error
	KeyExists(ctx context.Context, token string) (bool, error)

	// MarkSynced records that a campaign or zone was pushed to the edge KV.
	MarkSynced(ctx context.Context, tenant string, kind, id string, at time.Time) error
	SyncState(ctx context.Context, tenant string) (*domain.SyncState, error)
}

// EventRecorder ingests delivery data. The devserver serves no ads itself,
// so seeding and tests feed reports through it.
type EventRecorder interface {
	RecordStats(ctx context.Context, tenant string, row domain.StatsRow) error
	RecordConversion(ctx context.Context, tenant string, c domain.Conversion) error
}
