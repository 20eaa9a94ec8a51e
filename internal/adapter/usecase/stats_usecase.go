package usecase

import (
	"context"
	"encoding/json"
	"time"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
	"mesa-admin/internal/query"
)

const (
	sevenDaySlot = "last_7_days"
	rangeSlot    = "range"

	// recentSkew is how far the end of a seven-day window may sit from now
	// and still count as "last 7 days".
	recentSkew = 24 * time.Hour
)

// statsEntry is the content of a stats cache slot.
type statsEntry struct {
	Digest string       `json:"digest"`
	Stats  domain.Stats `json:"stats"`
}

// StatsUseCase reads reports. It keeps two single-entry slots: one for
// "last 7 days" windows, tolerant of time-of-day skew, and one for the most
// recent other window.
type StatsUseCase struct {
	client port.APIClient
	cache  port.Cache
	ttl    time.Duration
	now    func() time.Time
}

// NewStatsUseCase builds the stats service.
func NewStatsUseCase(deps Deps) *StatsUseCase {
	deps = deps.withDefaults()
	return &StatsUseCase{
		client: deps.Client,
		cache:  deps.Caches.Named(cacheStats),
		ttl:    deps.TTL.Stats,
		now:    deps.Now,
	}
}

// IsSevenDayWindow reports whether q spans between six and eight days.
func IsSevenDayWindow(q domain.StatsQuery) bool {
	span := time.Duration(q.To-q.From) * time.Millisecond
	return span >= 6*24*time.Hour && span <= 8*24*time.Hour
}

// LastSevenDays returns the query for the week ending at the current time.
func (u *StatsUseCase) LastSevenDays() domain.StatsQuery {
	to := u.now()
	return domain.StatsQuery{
		From: to.AddDate(0, 0, -7).UnixMilli(),
		To:   to.UnixMilli(),
	}
}

// Get returns the report for q. SkipCache forces a request.
func (u *StatsUseCase) Get(ctx context.Context, q domain.StatsQuery, skipCache bool) (*domain.Stats, error) {
	slot, digest := u.slotFor(q)

	if !skipCache {
		var entry statsEntry
		if getCached(ctx, u.cache, slot, &entry) && entry.Digest == digest {
			return &entry.Stats, nil
		}
	}

	var stats domain.Stats
	if err := u.client.Get(ctx, query.WithQuery("/api/stats", statsQuery(q)), &stats); err != nil {
		return nil, err
	}
	if stats.Items == nil {
		stats.Items = []domain.StatsRow{}
	}
	setCached(ctx, u.cache, slot, statsEntry{Digest: digest, Stats: stats}, u.ttl)
	return &stats, nil
}

// Invalidate clears both slots.
func (u *StatsUseCase) Invalidate(ctx context.Context) {
	u.cache.Invalidate(ctx)
}

// slotFor picks the cache slot of q and the digest an entry must carry to
// answer it. Seven-day windows ending near now match on everything but
// their dates; any other window, including an older week, uses the range
// slot keyed on its dates.
func (u *StatsUseCase) slotFor(q domain.StatsQuery) (string, string) {
	if IsSevenDayWindow(q) && u.endsRecently(q) {
		q.From, q.To = 0, 0
		return sevenDaySlot, digestOf(q)
	}
	return rangeSlot, digestOf(q)
}

func (u *StatsUseCase) endsRecently(q domain.StatsQuery) bool {
	skew := u.now().Sub(time.UnixMilli(q.To))
	if skew < 0 {
		skew = -skew
	}
	return skew <= recentSkew
}

func digestOf(q domain.StatsQuery) string {
	b, _ := json.Marshal(q)
	return string(b)
}

func statsQuery(q domain.StatsQuery) string {
	params := map[string]any{
		"from":        q.From,
		"to":          q.To,
		"campaign_id": q.CampaignID,
		"zone_id":     q.ZoneID,
	}
	if q.GroupBy != "" {
		params["group_by"] = q.GroupBy
	}
	return query.Build(params, query.Config{})
}
