// Package postgres implements the devserver's BackendStore on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
	"mesa-admin/internal/query"
)

const uniqueViolation = "23505"

// Store implements port.BackendStore using pgxpool.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var (
	_ port.BackendStore  = (*Store)(nil)
	_ port.EventRecorder = (*Store)(nil)
)

// NewStore returns a Postgres-backed store over pool.
func NewStore(pool *pgxpool.Pool, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{pool: pool, now: now}
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// notFound maps pgx.ErrNoRows onto domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// orderBy returns a safe ORDER BY clause for opts. Only columns in allowed
// are accepted; anything else sorts by created_at.
func orderBy(opts domain.ListOptions, allowed ...string) string {
	field, _ := query.StripSortSuffix(opts.Sort)
	col := "created_at"
	for _, a := range allowed {
		if field == a {
			col = a
			break
		}
	}
	dir := "DESC"
	if opts.Order == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", col, dir, dir)
}

func limitOffset(opts domain.ListOptions) (int, int) {
	page, limit := opts.Bounds()
	return limit, (page - 1) * limit
}

// where accumulates WHERE conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *where) String() string {
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func parseDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

const campaignColumns = `id, name, redirect_url, start_date, end_date, status, payment_model, rate::text, created_at, updated_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c    domain.Campaign
		rate *string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.RedirectURL, &c.StartDate, &c.EndDate, &c.Status, &c.PaymentModel, &rate, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	r, err := parseDecimal(rate)
	if err != nil {
		return nil, err
	}
	c.Rate = r
	return &c, nil
}

func (s *Store) ListCampaigns(ctx context.Context, tenant string, opts domain.ListOptions) ([]domain.Campaign, int, error) {
	w := &where{}
	w.add("tenant = ?", tenant)
	if opts.Status != "" {
		w.add("status = ?", opts.Status)
	}
	if opts.Search != "" {
		w.add("name ILIKE ?", "%"+opts.Search+"%")
	}
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM campaigns `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := limitOffset(opts)
	sql := fmt.Sprintf(`SELECT %s FROM campaigns %s %s LIMIT %d OFFSET %d`,
		campaignColumns, w.String(), orderBy(opts, "name", "start_date", "id"), limit, offset)
	rows, err := s.pool.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) GetCampaign(ctx context.Context, tenant string, id int64) (*domain.Campaign, error) {
	c, err := scanCampaign(s.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE tenant = $1 AND id = $2`, tenant, id))
	if err != nil {
		return nil, notFound(err)
	}
	if c.TargetingRules, err = s.ListTargetingRules(ctx, tenant, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) CreateCampaign(ctx context.Context, tenant string, in domain.CampaignInput) (c *domain.Campaign, err error) {
	status := in.Status
	if status == "" {
		status = domain.CampaignActive
	}
	now := s.nowMillis()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	c, err = scanCampaign(tx.QueryRow(ctx, `INSERT INTO campaigns
    (tenant, name, redirect_url, start_date, end_date, status, payment_model, rate, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8::numeric,$9,$9)
RETURNING `+campaignColumns,
		tenant, in.Name, in.RedirectURL, in.StartDate, in.EndDate, status, in.PaymentModel, decimalArg(in.Rate), now))
	if err != nil {
		return nil, err
	}
	if err = insertRules(ctx, tx, c.ID, in.TargetingRules); err != nil {
		return nil, err
	}
	c.TargetingRules = append([]domain.TargetingRule{}, in.TargetingRules...)
	return c, nil
}

func (s *Store) UpdateCampaign(ctx context.Context, tenant string, id int64, in domain.CampaignInput) (c *domain.Campaign, err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	c, err = scanCampaign(tx.QueryRow(ctx, `UPDATE campaigns SET
    name = $3, redirect_url = $4, start_date = $5, end_date = $6,
    status = COALESCE(NULLIF($7, ''), status), payment_model = $8, rate = $9::numeric, updated_at = $10
WHERE tenant = $1 AND id = $2
RETURNING `+campaignColumns,
		tenant, id, in.Name, in.RedirectURL, in.StartDate, in.EndDate, string(in.Status), in.PaymentModel, decimalArg(in.Rate), s.nowMillis()))
	if err != nil {
		return nil, notFound(err)
	}
	if in.TargetingRules != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM targeting_rules WHERE campaign_id = $1`, id); err != nil {
			return nil, err
		}
		if err = insertRules(ctx, tx, id, in.TargetingRules); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func insertRules(ctx context.Context, tx pgx.Tx, campaignID int64, rules []domain.TargetingRule) error {
	if len(rules) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range rules {
		batch.Queue(`INSERT INTO targeting_rules (campaign_id, targeting_rule_type_id, targeting_method, rule) VALUES ($1,$2,$3,$4)`,
			campaignID, r.TargetingRuleTypeID, r.TargetingMethod, r.Rule)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (s *Store) DeleteCampaign(ctx context.Context, tenant string, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM campaigns WHERE tenant = $1 AND id = $2`, tenant, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM sync_log WHERE tenant = $1 AND kind = 'campaign' AND entity_id = $2`, tenant, strconv.FormatInt(id, 10))
	return err
}

func (s *Store) CompleteExpiredCampaigns(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE campaigns SET status = 'completed', updated_at = $1
WHERE status IN ('active', 'paused') AND end_date IS NOT NULL AND end_date < $1`, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) campaignExists(ctx context.Context, tenant string, id int64) error {
	var ok bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM campaigns WHERE tenant = $1 AND id = $2)`, tenant, id).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) ListTargetingRules(ctx context.Context, tenant string, campaignID int64) ([]domain.TargetingRule, error) {
	if err := s.campaignExists(ctx, tenant, campaignID); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT targeting_rule_type_id, targeting_method, rule FROM targeting_rules
WHERE campaign_id = $1 ORDER BY targeting_rule_type_id`, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TargetingRule, error) {
		var r domain.TargetingRule
		err := row.Scan(&r.TargetingRuleTypeID, &r.TargetingMethod, &r.Rule)
		return r, err
	})
}

func (s *Store) ReplaceTargetingRules(ctx context.Context, tenant string, campaignID int64, rules []domain.TargetingRule) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `UPDATE campaigns SET updated_at = $3 WHERE tenant = $1 AND id = $2`, tenant, campaignID, s.nowMillis())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err = tx.Exec(ctx, `DELETE FROM targeting_rules WHERE campaign_id = $1`, campaignID); err != nil {
		return err
	}
	return insertRules(ctx, tx, campaignID, rules)
}

func (s *Store) ListTargetingRuleTypes(ctx context.Context) ([]domain.TargetingRuleType, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description FROM targeting_rule_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TargetingRuleType, error) {
		var t domain.TargetingRuleType
		err := row.Scan(&t.ID, &t.Name, &t.Description)
		return t, err
	})
}

func scanPayout(row pgx.Row) (domain.PayoutRule, error) {
	var (
		r      domain.PayoutRule
		zone   *string
		payout string
	)
	if err := row.Scan(&r.ID, &r.CampaignID, &zone, &payout); err != nil {
		return r, err
	}
	if zone != nil {
		r.ZoneID = domain.ZoneIDPtr(*zone)
	}
	p, err := decimal.NewFromString(payout)
	r.Payout = p
	return r, err
}

func (s *Store) ListPayoutRules(ctx context.Context, tenant string, campaignID int64) ([]domain.PayoutRule, error) {
	if err := s.campaignExists(ctx, tenant, campaignID); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT id, campaign_id, zone_id, payout::text FROM payout_rules
WHERE campaign_id = $1 ORDER BY zone_id NULLS FIRST`, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PayoutRule, error) {
		return scanPayout(row)
	})
}

func zoneArg(id *domain.ZoneID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func (s *Store) CreatePayoutRule(ctx context.Context, tenant string, campaignID int64, in domain.PayoutRuleInput) (*domain.PayoutRule, error) {
	if err := s.campaignExists(ctx, tenant, campaignID); err != nil {
		return nil, err
	}
	r, err := scanPayout(s.pool.QueryRow(ctx, `INSERT INTO payout_rules (campaign_id, zone_id, payout)
VALUES ($1, $2, $3::numeric) RETURNING id, campaign_id, zone_id, payout::text`,
		campaignID, zoneArg(in.ZoneID), in.Payout.String()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicatePayout
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) DeletePayoutRule(ctx context.Context, tenant string, campaignID int64, zoneID *domain.ZoneID) error {
	if err := s.campaignExists(ctx, tenant, campaignID); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM payout_rules WHERE campaign_id = $1 AND zone_id IS NOT DISTINCT FROM $2`,
		campaignID, zoneArg(zoneID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const zoneColumns = `id, name, site_url, traffic_back_url, postback_url, status, created_at`

func scanZone(row pgx.Row) (*domain.Zone, error) {
	var (
		z  domain.Zone
		id string
	)
	if err := row.Scan(&id, &z.Name, &z.SiteURL, &z.TrafficBackURL, &z.PostbackURL, &z.Status, &z.CreatedAt); err != nil {
		return nil, err
	}
	z.ID = domain.ZoneID(id)
	return &z, nil
}

func (s *Store) ListZones(ctx context.Context, tenant string, opts domain.ListOptions) ([]domain.Zone, int, error) {
	w := &where{}
	w.add("tenant = ?", tenant)
	if opts.Status != "" {
		w.add("status = ?", opts.Status)
	}
	if opts.Search != "" {
		w.add("(name ILIKE ? OR site_url ILIKE $"+strconv.Itoa(len(w.args)+1)+")", "%"+opts.Search+"%")
	}
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM zones `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := limitOffset(opts)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM zones %s %s LIMIT %d OFFSET %d`,
		zoneColumns, w.String(), orderBy(opts, "name", "id"), limit, offset), w.args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Zone, error) {
		z, err := scanZone(row)
		if err != nil {
			return domain.Zone{}, err
		}
		return *z, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) GetZone(ctx context.Context, tenant string, id domain.ZoneID) (*domain.Zone, error) {
	z, err := scanZone(s.pool.QueryRow(ctx, `SELECT `+zoneColumns+` FROM zones WHERE tenant = $1 AND id = $2`, tenant, id.String()))
	if err != nil {
		return nil, notFound(err)
	}
	return z, nil
}

func (s *Store) CreateZone(ctx context.Context, tenant string, in domain.ZoneInput) (*domain.Zone, error) {
	status := in.Status
	if status == "" {
		status = domain.ZoneActive
	}
	return scanZone(s.pool.QueryRow(ctx, `INSERT INTO zones
    (id, tenant, name, site_url, traffic_back_url, postback_url, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
RETURNING `+zoneColumns,
		uuid.NewString(), tenant, in.Name, in.SiteURL, in.TrafficBackURL, in.PostbackURL, status, s.nowMillis()))
}

func (s *Store) UpdateZone(ctx context.Context, tenant string, id domain.ZoneID, in domain.ZoneInput) (*domain.Zone, error) {
	z, err := scanZone(s.pool.QueryRow(ctx, `UPDATE zones SET
    name = $3, site_url = $4, traffic_back_url = $5, postback_url = $6,
    status = COALESCE(NULLIF($7, ''), status), updated_at = $8
WHERE tenant = $1 AND id = $2
RETURNING `+zoneColumns,
		tenant, id.String(), in.Name, in.SiteURL, in.TrafficBackURL, in.PostbackURL, string(in.Status), s.nowMillis()))
	if err != nil {
		return nil, notFound(err)
	}
	return z, nil
}

func (s *Store) DeleteZone(ctx context.Context, tenant string, id domain.ZoneID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM zones WHERE tenant = $1 AND id = $2`, tenant, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM sync_log WHERE tenant = $1 AND kind = 'zone' AND entity_id = $2`, tenant, id.String())
	return err
}

func (s *Store) Stats(ctx context.Context, tenant string, q domain.StatsQuery) (*domain.Stats, error) {
	key := `to_char(day, 'YYYY-MM-DD')`
	switch q.GroupBy {
	case "campaign":
		key = `campaign_id::text`
	case "zone":
		key = `COALESCE(zone_id, '')`
	}

	w := &where{}
	w.add("tenant = ?", tenant)
	w.add("day >= ?::date", time.UnixMilli(q.From).UTC().Format(time.DateOnly))
	w.add("day <= ?::date", time.UnixMilli(q.To).UTC().Format(time.DateOnly))
	if q.CampaignID != nil {
		w.add("campaign_id = ?", *q.CampaignID)
	}
	if q.ZoneID != nil {
		w.add("zone_id = ?", q.ZoneID.String())
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT %[1]s AS k, sum(impressions)::bigint, sum(clicks)::bigint, sum(conversions)::bigint, sum(spend)::text
FROM stats_daily %[2]s GROUP BY k ORDER BY k`, key, w.String()), w.args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StatsRow, error) {
		var (
			r     domain.StatsRow
			k     string
			spend string
		)
		if err := row.Scan(&k, &r.Impressions, &r.Clicks, &r.Conversions, &spend); err != nil {
			return r, err
		}
		switch q.GroupBy {
		case "campaign":
			r.CampaignID, _ = strconv.ParseInt(k, 10, 64)
		case "zone":
			if k != "" {
				r.ZoneID = domain.ZoneIDPtr(k)
			}
		default:
			r.Date = k
		}
		sp, err := decimal.NewFromString(spend)
		r.Spend = sp
		return r, err
	})
	if err != nil {
		return nil, err
	}

	out := &domain.Stats{Items: items}
	for _, r := range items {
		out.Totals.Impressions += r.Impressions
		out.Totals.Clicks += r.Clicks
		out.Totals.Conversions += r.Conversions
		out.Totals.Spend = out.Totals.Spend.Add(r.Spend)
	}
	return out, nil
}

func (s *Store) ListConversions(ctx context.Context, tenant string, opts domain.ListOptions) ([]domain.Conversion, int, error) {
	w := &where{}
	w.add("tenant = ?", tenant)
	if from, ok := opts.Int64Filter("from"); ok {
		w.add("created_at >= ?", domain.NormalizeEpoch(from)/1000)
	}
	if to, ok := opts.Int64Filter("to"); ok {
		w.add("created_at <= ?", domain.NormalizeEpoch(to)/1000)
	}
	if opts.Search != "" {
		w.add("(click_id = ? OR ad_event_id = $"+strconv.Itoa(len(w.args)+1)+")", opts.Search)
	}
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM conversions `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := limitOffset(opts)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT id, ad_event_id, click_id, payload, created_at FROM conversions %s %s LIMIT %d OFFSET %d`,
		w.String(), orderBy(domain.ListOptions{Order: opts.Order}), limit, offset), w.args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Conversion, error) {
		var c domain.Conversion
		err := row.Scan(&c.ID, &c.AdEventID, &c.ClickID, &c.Payload, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) GetTenant(ctx context.Context, tenant string) (*domain.TenantSettings, error) {
	var t domain.TenantSettings
	err := s.pool.QueryRow(ctx, `SELECT company_name, timezone, primary_color, secondary_color FROM tenants WHERE namespace = $1`, tenant).
		Scan(&t.CompanyName, &t.Timezone, &t.PrimaryColor, &t.SecondaryColor)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) UpdateTenant(ctx context.Context, tenant string, t domain.TenantSettings) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO tenants (namespace, company_name, timezone, primary_color, secondary_color)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (namespace) DO UPDATE SET
    company_name = EXCLUDED.company_name, timezone = EXCLUDED.timezone,
    primary_color = EXCLUDED.primary_color, secondary_color = EXCLUDED.secondary_color`,
		tenant, t.CompanyName, t.Timezone, t.PrimaryColor, t.SecondaryColor)
	return err
}

func (s *Store) ListKeys(ctx context.Context, tenant string) ([]domain.APIKey, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, token, email, role, permissions, created_at, expires_at FROM api_keys
WHERE tenant = $1 ORDER BY created_at, id`, tenant)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.APIKey, error) {
		var k domain.APIKey
		err := row.Scan(&k.ID, &k.Token, &k.Email, &k.Role, &k.Permissions, &k.CreatedAt, &k.ExpiresAt)
		return k, err
	})
}

func (s *Store) CreateKey(ctx context.Context, tenant string, k domain.APIKey) error {
	perms := k.Permissions
	if perms == nil {
		perms = []string{}
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO api_keys (token, id, tenant, email, role, permissions, created_at, expires_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		k.Token, k.ID, tenant, k.Email, k.Role, perms, k.CreatedAt, k.ExpiresAt)
	return err
}

func (s *Store) DeleteKey(ctx context.Context, tenant string, token string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM api_keys WHERE tenant = $1 AND token = $2`, tenant, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) KeyExists(ctx context.Context, token string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM api_keys WHERE token = $1)`, token).Scan(&ok)
	return ok, err
}

func (s *Store) MarkSynced(ctx context.Context, tenant string, kind, id string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO sync_log (tenant, kind, entity_id, synced_at) VALUES ($1,$2,$3,$4)
ON CONFLICT (tenant, kind, entity_id) DO UPDATE SET synced_at = EXCLUDED.synced_at`,
		tenant, kind, id, at.UnixMilli())
	return err
}

func (s *Store) SyncState(ctx context.Context, tenant string) (*domain.SyncState, error) {
	var st domain.SyncState
	err := s.pool.QueryRow(ctx, `
WITH entities AS (
    SELECT 'campaign' AS kind, id::text AS entity_id, updated_at FROM campaigns WHERE tenant = $1
    UNION ALL
    SELECT 'zone', id, updated_at FROM zones WHERE tenant = $1
)
SELECT
    (SELECT max(synced_at) FROM sync_log WHERE tenant = $1),
    count(*) FILTER (WHERE e.kind = 'campaign' AND l.synced_at >= e.updated_at),
    count(*) FILTER (WHERE e.kind = 'zone' AND l.synced_at >= e.updated_at),
    count(*) FILTER (WHERE l.synced_at IS NULL OR l.synced_at < e.updated_at)
FROM entities e
LEFT JOIN sync_log l ON l.tenant = $1 AND l.kind = e.kind AND l.entity_id = e.entity_id`, tenant).
		Scan(&st.LastSyncedAt, &st.CampaignsSynced, &st.ZonesSynced, &st.Pending)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) RecordStats(ctx context.Context, tenant string, r domain.StatsRow) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO stats_daily (tenant, day, campaign_id, zone_id, impressions, clicks, conversions, spend)
VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8::numeric)`,
		tenant, r.Date, r.CampaignID, zoneArg(r.ZoneID), r.Impressions, r.Clicks, r.Conversions, r.Spend.String())
	return err
}

func (s *Store) RecordConversion(ctx context.Context, tenant string, c domain.Conversion) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO conversions (tenant, ad_event_id, click_id, payload, created_at) VALUES ($1,$2,$3,$4,$5)`,
		tenant, c.AdEventID, c.ClickID, c.Payload, c.CreatedAt)
	return err
}
