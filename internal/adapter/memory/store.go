// Package memory is an in-process BackendStore for tests and the default
// devserver.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
)

// RuleTypes is the targeting rule type catalog served by the store.
var RuleTypes = []domain.TargetingRuleType{
	{ID: 1, Name: "device_type", Description: "Device types: desktop, mobile, tablet, tv"},
	{ID: 2, Name: "country", Description: "ISO 3166-1 alpha-2 country codes"},
	{ID: 3, Name: "zone", Description: "Publisher zone ids"},
	{ID: 4, Name: "browser", Description: "Browser families"},
	{ID: 5, Name: "os", Description: "Operating systems"},
	{ID: 6, Name: "unique_users", Description: "Unique users per window, as <count>,<hours>"},
}

type tenantData struct {
	campaigns   map[int64]*domain.Campaign
	rules       map[int64][]domain.TargetingRule
	payouts     map[int64][]domain.PayoutRule
	zones       map[domain.ZoneID]*domain.Zone
	zoneUpdated map[domain.ZoneID]int64
	stats       []domain.StatsRow
	conversions []domain.Conversion
	settings    *domain.TenantSettings
	keys        map[string]domain.APIKey
	// synced maps "campaign:<id>" and "zone:<id>" to the last sync in ms.
	synced map[string]int64
}

// Store keeps every tenant in maps behind one mutex.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	seq     int64
	tenants map[string]*tenantData
	// keyTenants maps a key token to its tenant.
	keyTenants map[string]string
}

var (
	_ port.BackendStore  = (*Store)(nil)
	_ port.EventRecorder = (*Store)(nil)
)

// New returns an empty in-memory store.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:        now,
		tenants:    make(map[string]*tenantData),
		keyTenants: make(map[string]string),
	}
}

// tenant returns the tenant's data, creating it. Callers hold s.mu.
func (s *Store) tenant(name string) *tenantData {
	t, ok := s.tenants[name]
	if !ok {
		t = &tenantData{
			campaigns:   make(map[int64]*domain.Campaign),
			rules:       make(map[int64][]domain.TargetingRule),
			payouts:     make(map[int64][]domain.PayoutRule),
			zones:       make(map[domain.ZoneID]*domain.Zone),
			zoneUpdated: make(map[domain.ZoneID]int64),
			keys:        make(map[string]domain.APIKey),
			synced:      make(map[string]int64),
		}
		s.tenants[name] = t
	}
	return t
}

// view returns the tenant's data for reading without creating it. Callers
// hold s.mu.
func (s *Store) view(name string) *tenantData {
	if t, ok := s.tenants[name]; ok {
		return t
	}
	return &tenantData{}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

func (s *Store) ListCampaigns(_ context.Context, tenant string, opts domain.ListOptions) ([]domain.Campaign, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.view(tenant)
	items := make([]domain.Campaign, 0, len(t.campaigns))
	search := strings.ToLower(opts.Search)
	for _, c := range t.campaigns {
		if opts.Status != "" && string(c.Status) != opts.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		cp := *c
		cp.TargetingRules = nil
		items = append(items, cp)
	}
	sortBy(items, opts, func(c domain.Campaign, field string) any {
		switch field {
		case "name":
			return c.Name
		case "start_date":
			return c.StartDate
		case "id":
			return c.ID
		}
		return c.CreatedAt
	}, func(c domain.Campaign) int64 { return c.ID })
	page, total := paginate(items, opts)
	return page, total, nil
}

func (s *Store) GetCampaign(_ context.Context, tenant string, id int64) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.view(tenant)
	c, ok := t.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	cp.TargetingRules = append([]domain.TargetingRule{}, t.rules[id]...)
	return &cp, nil
}

func (s *Store) CreateCampaign(_ context.Context, tenant string, in domain.CampaignInput) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	now := s.nowMillis()
	status := in.Status
	if status == "" {
		status = domain.CampaignActive
	}
	c := &domain.Campaign{
		ID:           s.nextID(),
		Name:         in.Name,
		RedirectURL:  in.RedirectURL,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Status:       status,
		PaymentModel: in.PaymentModel,
		Rate:         in.Rate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	t.campaigns[c.ID] = c
	t.rules[c.ID] = append([]domain.TargetingRule{}, in.TargetingRules...)

	cp := *c
	cp.TargetingRules = append([]domain.TargetingRule{}, t.rules[c.ID]...)
	return &cp, nil
}

func (s *Store) UpdateCampaign(_ context.Context, tenant string, id int64, in domain.CampaignInput) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	c, ok := t.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Name = in.Name
	c.RedirectURL = in.RedirectURL
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.PaymentModel = in.PaymentModel
	c.Rate = in.Rate
	if in.Status != "" {
		c.Status = in.Status
	}
	if in.TargetingRules != nil {
		t.rules[id] = append([]domain.TargetingRule{}, in.TargetingRules...)
	}
	c.UpdatedAt = s.nowMillis()

	cp := *c
	cp.TargetingRules = append([]domain.TargetingRule{}, t.rules[id]...)
	return &cp, nil
}

func (s *Store) DeleteCampaign(_ context.Context, tenant string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	if _, ok := t.campaigns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.campaigns, id)
	delete(t.rules, id)
	delete(t.payouts, id)
	delete(t.synced, "campaign:"+strconv.FormatInt(id, 10))
	return nil
}

func (s *Store) CompleteExpiredCampaigns(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.UnixMilli()
	var n int64
	for _, t := range s.tenants {
		for _, c := range t.campaigns {
			if c.Status == domain.CampaignCompleted || c.EndDate == nil || *c.EndDate >= cutoff {
				continue
			}
			c.Status = domain.CampaignCompleted
			c.UpdatedAt = cutoff
			n++
		}
	}
	return n, nil
}

func (s *Store) ListTargetingRules(_ context.Context, tenant string, campaignID int64) ([]domain.TargetingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.view(tenant)
	if _, ok := t.campaigns[campaignID]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.TargetingRule{}, t.rules[campaignID]...), nil
}

func (s *Store) ReplaceTargetingRules(_ context.Context, tenant string, campaignID int64, rules []domain.TargetingRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	c, ok := t.campaigns[campaignID]
	if !ok {
		return domain.ErrNotFound
	}
	t.rules[campaignID] = append([]domain.TargetingRule{}, rules...)
	c.UpdatedAt = s.nowMillis()
	return nil
}

func (s *Store) ListTargetingRuleTypes(context.Context) ([]domain.TargetingRuleType, error) {
	return append([]domain.TargetingRuleType{}, RuleTypes...), nil
}

func (s *Store) ListPayoutRules(_ context.Context, tenant string, campaignID int64) ([]domain.PayoutRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.view(tenant)
	if _, ok := t.campaigns[campaignID]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.PayoutRule{}, t.payouts[campaignID]...), nil
}

func (s *Store) CreatePayoutRule(_ context.Context, tenant string, campaignID int64, in domain.PayoutRuleInput) (*domain.PayoutRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	if _, ok := t.campaigns[campaignID]; !ok {
		return nil, domain.ErrNotFound
	}
	for _, r := range t.payouts[campaignID] {
		if sameZone(r.ZoneID, in.ZoneID) {
			return nil, domain.ErrDuplicatePayout
		}
	}
	r := domain.PayoutRule{ID: s.nextID(), CampaignID: campaignID, ZoneID: in.ZoneID, Payout: in.Payout}
	t.payouts[campaignID] = append(t.payouts[campaignID], r)
	return &r, nil
}

func (s *Store) DeletePayoutRule(_ context.Context, tenant string, campaignID int64, zoneID *domain.ZoneID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	rules := t.payouts[campaignID]
	for i, r := range rules {
		if sameZone(r.ZoneID, zoneID) {
			t.payouts[campaignID] = append(rules[:i:i], rules[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func sameZone(a, b *domain.ZoneID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Store) ListZones(_ context.Context, tenant string, opts domain.ListOptions) ([]domain.Zone, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.view(tenant)
	items := make([]domain.Zone, 0, len(t.zones))
	search := strings.ToLower(opts.Search)
	for _, z := range t.zones {
		if opts.Status != "" && string(z.Status) != opts.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(z.Name), search) &&
			!strings.Contains(strings.ToLower(z.SiteURL), search) {
			continue
		}
		items = append(items, *z)
	}
	sortBy(items, opts, func(z domain.Zone, field string) any {
		switch field {
		case "name":
			return z.Name
		case "id":
			return z.ID.String()
		}
		return z.CreatedAt
	}, func(z domain.Zone) int64 { n, _ := strconv.ParseInt(z.ID.String(), 10, 64); return n })
	page, total := paginate(items, opts)
	return page, total, nil
}

func (s *Store) GetZone(_ context.Context, tenant string, id domain.ZoneID) (*domain.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	z, ok := s.view(tenant).zones[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *z
	return &cp, nil
}

func (s *Store) CreateZone(_ context.Context, tenant string, in domain.ZoneInput) (*domain.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	status := in.Status
	if status == "" {
		status = domain.ZoneActive
	}
	z := &domain.Zone{
		ID:             domain.ZoneID(strconv.FormatInt(s.nextID(), 10)),
		Name:           in.Name,
		SiteURL:        in.SiteURL,
		TrafficBackURL: in.TrafficBackURL,
		PostbackURL:    in.PostbackURL,
		Status:         status,
		CreatedAt:      s.nowMillis(),
	}
	t.zones[z.ID] = z
	t.zoneUpdated[z.ID] = z.CreatedAt
	cp := *z
	return &cp, nil
}

func (s *Store) UpdateZone(_ context.Context, tenant string, id domain.ZoneID, in domain.ZoneInput) (*domain.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	z, ok := t.zones[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	z.Name = in.Name
	z.SiteURL = in.SiteURL
	z.TrafficBackURL = in.TrafficBackURL
	z.PostbackURL = in.PostbackURL
	if in.Status != "" {
		z.Status = in.Status
	}
	t.zoneUpdated[id] = s.nowMillis()
	cp := *z
	return &cp, nil
}

func (s *Store) DeleteZone(_ context.Context, tenant string, id domain.ZoneID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	if _, ok := t.zones[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.zones, id)
	delete(t.zoneUpdated, id)
	delete(t.synced, "zone:"+id.String())
	return nil
}

func (s *Store) Stats(_ context.Context, tenant string, q domain.StatsQuery) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from := time.UnixMilli(q.From).UTC().Format(time.DateOnly)
	to := time.UnixMilli(q.To).UTC().Format(time.DateOnly)

	out := &domain.Stats{Items: []domain.StatsRow{}}
	for _, r := range s.view(tenant).stats {
		if r.Date < from || r.Date > to {
			continue
		}
		if q.CampaignID != nil && r.CampaignID != *q.CampaignID {
			continue
		}
		if q.ZoneID != nil && (r.ZoneID == nil || *r.ZoneID != *q.ZoneID) {
			continue
		}
		out.Items = append(out.Items, r)
	}
	out.Items = groupStats(out.Items, q.GroupBy)
	for _, r := range out.Items {
		out.Totals.Impressions += r.Impressions
		out.Totals.Clicks += r.Clicks
		out.Totals.Conversions += r.Conversions
		out.Totals.Spend = out.Totals.Spend.Add(r.Spend)
	}
	return out, nil
}

func (s *Store) ListConversions(_ context.Context, tenant string, opts domain.ListOptions) ([]domain.Conversion, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, hasFrom := opts.Int64Filter("from")
	to, hasTo := opts.Int64Filter("to")
	items := make([]domain.Conversion, 0)
	for _, c := range s.view(tenant).conversions {
		ms := domain.NormalizeEpoch(c.CreatedAt)
		if hasFrom && ms < from || hasTo && ms > to {
			continue
		}
		if opts.Search != "" && c.ClickID != opts.Search && c.AdEventID != opts.Search {
			continue
		}
		items = append(items, c)
	}
	sortBy(items, opts, func(c domain.Conversion, _ string) any { return c.CreatedAt },
		func(c domain.Conversion) int64 { return c.ID })
	page, total := paginate(items, opts)
	return page, total, nil
}

func (s *Store) GetTenant(_ context.Context, tenant string) (*domain.TenantSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.view(tenant)
	if t.settings == nil {
		return nil, domain.ErrNotFound
	}
	cp := *t.settings
	return &cp, nil
}

func (s *Store) UpdateTenant(_ context.Context, tenant string, settings domain.TenantSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tenant(tenant).settings = &settings
	return nil
}

func (s *Store) ListKeys(_ context.Context, tenant string) ([]domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]domain.APIKey, 0)
	for _, k := range s.view(tenant).keys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CreatedAt != keys[j].CreatedAt {
			return keys[i].CreatedAt < keys[j].CreatedAt
		}
		return keys[i].ID < keys[j].ID
	})
	return keys, nil
}

func (s *Store) CreateKey(_ context.Context, tenant string, key domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tenant(tenant).keys[key.Token] = key
	s.keyTenants[key.Token] = tenant
	return nil
}

func (s *Store) DeleteKey(_ context.Context, tenant string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	if _, ok := t.keys[token]; !ok {
		return domain.ErrNotFound
	}
	delete(t.keys, token)
	delete(s.keyTenants, token)
	return nil
}

func (s *Store) KeyExists(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.keyTenants[token]
	return ok, nil
}

func (s *Store) MarkSynced(_ context.Context, tenant string, kind, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tenant(tenant).synced[kind+":"+id] = at.UnixMilli()
	return nil
}

func (s *Store) SyncState(_ context.Context, tenant string) (*domain.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.view(tenant)
	state := &domain.SyncState{}
	var last int64
	track := func(key string, updatedAt int64) int64 {
		at, ok := t.synced[key]
		if at > last {
			last = at
		}
		if !ok || at < updatedAt {
			state.Pending++
			return 0
		}
		return 1
	}
	for id, c := range t.campaigns {
		state.CampaignsSynced += track("campaign:"+strconv.FormatInt(id, 10), c.UpdatedAt)
	}
	for id := range t.zones {
		state.ZonesSynced += track("zone:"+id.String(), t.zoneUpdated[id])
	}
	if last > 0 {
		state.LastSyncedAt = &last
	}
	return state, nil
}

func (s *Store) RecordStats(_ context.Context, tenant string, row domain.StatsRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	t.stats = append(t.stats, row)
	return nil
}

func (s *Store) RecordConversion(_ context.Context, tenant string, c domain.Conversion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tenant(tenant)
	if c.ID == 0 {
		c.ID = s.nextID()
	}
	t.conversions = append(t.conversions, c)
	return nil
}
