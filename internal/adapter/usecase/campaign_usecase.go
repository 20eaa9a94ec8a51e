package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
	"mesa-admin/internal/listservice"
)

const activeCampaignsKey = "active_campaigns"

// CampaignUseCase manages campaigns and their targeting and payout rules.
type CampaignUseCase struct {
	client port.APIClient
	list   *listservice.Service[domain.Campaign]
	sync   *SyncUseCase
	logger *slog.Logger
}

// NewCampaignUseCase builds the campaign service. sync may be nil, in which
// case writes are not pushed to the edge.
func NewCampaignUseCase(deps Deps, sync *SyncUseCase) *CampaignUseCase {
	deps = deps.withDefaults()
	return &CampaignUseCase{
		client: deps.Client,
		list: listservice.New[domain.Campaign](deps.Client, deps.Caches.Named(cacheCampaigns), listservice.Config{
			Name:          cacheCampaigns,
			Endpoint:      "/api/campaigns",
			CacheDuration: deps.TTL.List,
			KeyFunc:       listservice.ActiveResourceKey(activeCampaignsKey),
			Logger:        deps.Logger,
			Metrics:       deps.Metrics,
		}),
		sync:   sync,
		logger: deps.Logger,
	}
}

func campaignPath(id int64, sub ...string) string {
	p := "/api/campaigns/" + strconv.FormatInt(id, 10)
	for _, s := range sub {
		p += "/" + s
	}
	return p
}

// List returns one page of campaigns.
func (u *CampaignUseCase) List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult[domain.Campaign], error) {
	return u.list.Fetch(ctx, opts)
}

// Get returns a single campaign.
func (u *CampaignUseCase) Get(ctx context.Context, id int64) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := u.client.Get(ctx, campaignPath(id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ActiveCount returns the number of active campaigns. Failures are logged
// and reported as zero so summary tiles degrade instead of failing.
func (u *CampaignUseCase) ActiveCount(ctx context.Context) int {
	res, err := u.list.Fetch(ctx, domain.ListOptions{
		Page:   1,
		Limit:  1,
		Status: string(domain.CampaignActive),
		Sort:   "created_at",
		Order:  "desc",
	})
	if err != nil {
		u.logger.Warn("active campaign count failed", slog.Any("error", err))
		return 0
	}
	return res.Pagination.Total
}

// Create validates in, creates a campaign and syncs it.
func (u *CampaignUseCase) Create(ctx context.Context, in domain.CampaignInput) (*domain.Campaign, error) {
	c, err := u.create(ctx, in)
	if err != nil {
		return nil, err
	}
	u.syncBestEffort(ctx, c.ID)
	return c, nil
}

func (u *CampaignUseCase) create(ctx context.Context, in domain.CampaignInput) (*domain.Campaign, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	var c domain.Campaign
	if err := u.client.Post(ctx, "/api/campaigns", in, &c); err != nil {
		return nil, err
	}
	u.list.InvalidateCache(ctx)
	return &c, nil
}

// Update validates in, replaces the campaign's editable fields and syncs
// the campaign.
func (u *CampaignUseCase) Update(ctx context.Context, id int64, in domain.CampaignInput) (*domain.Campaign, error) {
	c, err := u.update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	u.syncBestEffort(ctx, id)
	return c, nil
}

func (u *CampaignUseCase) update(ctx context.Context, id int64, in domain.CampaignInput) (*domain.Campaign, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	var c domain.Campaign
	if err := u.client.Put(ctx, campaignPath(id), in, &c); err != nil {
		return nil, err
	}
	u.list.InvalidateCache(ctx)
	return &c, nil
}

// SetStatus moves c between active and paused. Completed campaigns are
// terminal and are rejected without a request.
func (u *CampaignUseCase) SetStatus(ctx context.Context, c domain.Campaign, status domain.CampaignStatus) (*domain.Campaign, error) {
	if c.Status == domain.CampaignCompleted {
		return nil, domain.BusinessError(domain.ErrCompletedCampaign)
	}
	if status != domain.CampaignActive && status != domain.CampaignPaused {
		return nil, domain.BusinessError(domain.ErrInvalidStatus)
	}
	in := c.Input()
	in.Status = status
	// Rules are managed through their own endpoint.
	in.TargetingRules = nil
	return u.Update(ctx, c.ID, in)
}

// Toggle flips c between active and paused.
func (u *CampaignUseCase) Toggle(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	next := domain.CampaignActive
	if c.Status == domain.CampaignActive {
		next = domain.CampaignPaused
	}
	return u.SetStatus(ctx, c, next)
}

// Delete removes a campaign.
func (u *CampaignUseCase) Delete(ctx context.Context, id int64) error {
	if err := u.client.Delete(ctx, campaignPath(id), nil); err != nil {
		return err
	}
	u.list.InvalidateCache(ctx)
	return nil
}

// TargetingRules returns the campaign's targeting rules.
func (u *CampaignUseCase) TargetingRules(ctx context.Context, id int64) ([]domain.TargetingRule, error) {
	var rules []domain.TargetingRule
	if err := u.client.Get(ctx, campaignPath(id, "targeting_rules"), &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

type targetingRulesBody struct {
	TargetingRules []domain.TargetingRule `json:"targeting_rules" validate:"dive"`
}

// ReplaceTargetingRules submits the full rule set; the backend creates,
// updates and deletes rules to match it. Rule writes do not sync; the
// editor syncs once the whole form is saved.
func (u *CampaignUseCase) ReplaceTargetingRules(ctx context.Context, id int64, rules []domain.TargetingRule) ([]domain.TargetingRule, error) {
	if rules == nil {
		rules = []domain.TargetingRule{}
	}
	if err := domain.Validate(targetingRulesBody{TargetingRules: rules}); err != nil {
		return nil, err
	}
	var out []domain.TargetingRule
	if err := u.client.Post(ctx, campaignPath(id, "targeting_rules"), targetingRulesBody{TargetingRules: rules}, &out); err != nil {
		return nil, err
	}
	u.list.InvalidateCache(ctx)
	return out, nil
}

// PayoutRules returns the campaign's payout rules.
func (u *CampaignUseCase) PayoutRules(ctx context.Context, id int64) ([]domain.PayoutRule, error) {
	var rules []domain.PayoutRule
	if err := u.client.Get(ctx, campaignPath(id, "payout_rules"), &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// CreatePayoutRule adds a global (nil zone) or zone payout rule.
func (u *CampaignUseCase) CreatePayoutRule(ctx context.Context, id int64, in domain.PayoutRuleInput) (*domain.PayoutRule, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	var r domain.PayoutRule
	if err := u.client.Post(ctx, campaignPath(id, "payout_rules"), in, &r); err != nil {
		return nil, err
	}
	u.list.InvalidateCache(ctx)
	return &r, nil
}

// DeletePayoutRule removes the zone's rule, or the global rule when zoneID is
// nil.
func (u *CampaignUseCase) DeletePayoutRule(ctx context.Context, id int64, zoneID *domain.ZoneID) error {
	path := campaignPath(id, "payout_rules")
	if zoneID != nil {
		path += "?" + url.Values{"zone_id": {zoneID.String()}}.Encode()
	}
	if err := u.client.Delete(ctx, path, nil); err != nil {
		return err
	}
	u.list.InvalidateCache(ctx)
	return nil
}

// syncBestEffort pushes the campaign to the edge.
func (u *CampaignUseCase) syncBestEffort(ctx context.Context, id int64) {
	if u.sync != nil && id != 0 {
		u.sync.campaignBestEffort(ctx, id)
	}
}
