package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/adapter/memory"
	"mesa-admin/internal/auth"
	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/metrics"
)

const tenant = "acme"

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type testServer struct {
	*httptest.Server
	store   *memory.Store
	issuer  *auth.Issuer
	metrics *metrics.Server
	key     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clock := func() time.Time { return testNow }
	store := memory.New(clock)
	issuer := auth.NewIssuer("test-secret", clock)
	m := metrics.NewServer(nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewHandler(store, issuer, logger,
		WithClock(clock),
		WithMetrics(m, prometheus.NewRegistry()),
		WithPublicTenant(tenant),
	)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)

	ts := &testServer{Server: srv, store: store, issuer: issuer, metrics: m}
	ts.key = ts.issueKey(t, domain.RoleOwner)
	return ts
}

func (ts *testServer) issueKey(t *testing.T, role domain.Role) string {
	t.Helper()
	key, err := ts.issuer.Issue(tenant, domain.APIKeyInput{Email: string(role) + "@acme.test", Role: role})
	require.NoError(t, err)
	require.NoError(t, ts.store.CreateKey(context.Background(), tenant, key))
	return key.Token
}

func (ts *testServer) do(t *testing.T, key, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func validCampaign() domain.CampaignInput {
	return domain.CampaignInput{
		Name:         "Spring sale",
		RedirectURL:  "https://shop.example.com",
		StartDate:    testNow.UnixMilli(),
		PaymentModel: domain.PaymentCPM,
	}
}

func TestAPIRequiresValidKey(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, "", http.MethodGet, "/api/campaigns", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, decode[errorBody](t, body).Error)

	status, _ = ts.do(t, "not-a-jwt", http.MethodGet, "/api/campaigns", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	foreign, err := auth.NewIssuer("other-secret", nil).Issue(tenant, domain.APIKeyInput{Email: "x@acme.test", Role: domain.RoleOwner})
	require.NoError(t, err)
	status, _ = ts.do(t, foreign.Token, http.MethodGet, "/api/campaigns", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = ts.do(t, ts.key, http.MethodGet, "/api/campaigns", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRevokedKeyIsRejected(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.issueKey(t, domain.RoleManager)

	status, _ := ts.do(t, ts.key, http.MethodDelete, "/api/keys/"+manager, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body := ts.do(t, manager, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "api key has been revoked", decode[errorBody](t, body).Error)
}

func TestKeyManagementNeedsOwnerOrManager(t *testing.T) {
	ts := newTestServer(t)
	publisher := ts.issueKey(t, domain.RolePublisher)

	in := domain.APIKeyInput{Email: "new@acme.test", Role: domain.RoleAdvertiser}
	status, _ := ts.do(t, publisher, http.MethodPost, "/api/keys", in)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := ts.do(t, ts.key, http.MethodPost, "/api/keys", in)
	require.Equal(t, http.StatusCreated, status)
	key := decode[domain.APIKey](t, body)
	assert.Equal(t, "new@acme.test", key.Email)

	status, body = ts.do(t, key.Token, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[domain.UserIdentity](t, body)
	assert.Equal(t, tenant, me.Namespace)
	assert.Equal(t, domain.RoleAdvertiser, me.Role)
}

func TestPublicTenantNeedsNoKey(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.store.UpdateTenant(context.Background(), tenant, domain.TenantSettings{
		CompanyName: "Acme", Timezone: "Europe/Berlin", PrimaryColor: "#ff0000",
	}))

	status, body := ts.do(t, "", http.MethodGet, "/api/tenant/public", nil)
	require.Equal(t, http.StatusOK, status)
	pub := decode[domain.PublicTenant](t, body)
	assert.Equal(t, "Acme", pub.CompanyName)
	assert.Equal(t, "#ff0000", pub.PrimaryColor)
}

func TestCreateCampaignValidation(t *testing.T) {
	ts := newTestServer(t)

	in := validCampaign()
	in.Name = "x"
	in.RedirectURL = "not a url"
	status, body := ts.do(t, ts.key, http.MethodPost, "/api/campaigns", in)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	eb := decode[errorBody](t, body)
	assert.Contains(t, eb.Fields, "name")
	assert.Contains(t, eb.Fields, "redirect_url")

	in = validCampaign()
	in.TargetingRules = []domain.TargetingRule{{TargetingRuleTypeID: 99, TargetingMethod: domain.Whitelist, Rule: "x"}}
	status, body = ts.do(t, ts.key, http.MethodPost, "/api/campaigns", in)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, decode[errorBody](t, body).Fields, "targeting_rules[0].targeting_rule_type_id")

	status, _ = ts.do(t, ts.key, http.MethodGet, "/api/campaigns/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCampaignListPagination(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 3; i++ {
		in := validCampaign()
		in.Name = "Campaign " + strconv.Itoa(i)
		status, _ := ts.do(t, ts.key, http.MethodPost, "/api/campaigns", in)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := ts.do(t, ts.key, http.MethodGet, "/api/campaigns?page=2&limit=2&status=active", nil)
	require.Equal(t, http.StatusOK, status)
	res := decode[domain.ListResult[domain.Campaign]](t, body)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, res.Pagination)

	status, body = ts.do(t, ts.key, http.MethodGet, "/api/campaigns?status=paused", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"items":[],"pagination":{"page":1,"limit":10,"total":0,"total_pages":0}}`, string(body))
}

func TestCompletedCampaignCannotBeReactivated(t *testing.T) {
	ts := newTestServer(t)
	in := validCampaign()
	in.EndDate = domain.MillisPtr(testNow.Add(time.Hour))
	status, body := ts.do(t, ts.key, http.MethodPost, "/api/campaigns", in)
	require.Equal(t, http.StatusCreated, status)
	c := decode[domain.Campaign](t, body)

	n, err := ts.store.CompleteExpiredCampaigns(context.Background(), testNow.Add(2*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	in.Status = domain.CampaignActive
	status, body = ts.do(t, ts.key, http.MethodPut, "/api/campaigns/"+strconv.FormatInt(c.ID, 10), in)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, domain.ErrCompletedCampaign.Error(), decode[errorBody](t, body).Error)

	in.Status = ""
	in.Name = "Renamed"
	status, body = ts.do(t, ts.key, http.MethodPut, "/api/campaigns/"+strconv.FormatInt(c.ID, 10), in)
	require.Equal(t, http.StatusOK, status)
	updated := decode[domain.Campaign](t, body)
	assert.Equal(t, domain.CampaignCompleted, updated.Status)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestTargetingRulesAreReplacedWholesale(t *testing.T) {
	ts := newTestServer(t)
	in := validCampaign()
	in.TargetingRules = []domain.TargetingRule{
		{TargetingRuleTypeID: 1, TargetingMethod: domain.Whitelist, Rule: "mobile"},
		{TargetingRuleTypeID: 2, TargetingMethod: domain.Blacklist, Rule: "US"},
	}
	_, body := ts.do(t, ts.key, http.MethodPost, "/api/campaigns", in)
	c := decode[domain.Campaign](t, body)
	path := "/api/campaigns/" + strconv.FormatInt(c.ID, 10) + "/targeting_rules"

	status, body := ts.do(t, ts.key, http.MethodPost, path, map[string]any{
		"targeting_rules": []domain.TargetingRule{{TargetingRuleTypeID: 2, TargetingMethod: domain.Whitelist, Rule: "DE"}},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []domain.TargetingRule{{TargetingRuleTypeID: 2, TargetingMethod: domain.Whitelist, Rule: "DE"}},
		decode[[]domain.TargetingRule](t, body))

	status, body = ts.do(t, ts.key, http.MethodPost, path, map[string]any{"targeting_rules": []any{}})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestDuplicatePayoutRuleConflicts(t *testing.T) {
	ts := newTestServer(t)
	_, body := ts.do(t, ts.key, http.MethodPost, "/api/campaigns", validCampaign())
	c := decode[domain.Campaign](t, body)
	path := "/api/campaigns/" + strconv.FormatInt(c.ID, 10) + "/payout_rules"

	status, _ := ts.do(t, ts.key, http.MethodPost, path, map[string]any{"payout": 5})
	require.Equal(t, http.StatusCreated, status)
	status, body = ts.do(t, ts.key, http.MethodPost, path, map[string]any{"payout": 6})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, domain.ErrDuplicatePayout.Error(), decode[errorBody](t, body).Error)

	status, _ = ts.do(t, ts.key, http.MethodPost, path, map[string]any{"zone_id": 7, "payout": 6})
	require.Equal(t, http.StatusCreated, status)

	status, _ = ts.do(t, ts.key, http.MethodDelete, path+"?zone_id=7", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = ts.do(t, ts.key, http.MethodDelete, path+"?zone_id=7", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ts.do(t, ts.key, http.MethodPost, path, map[string]any{"payout": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestActiveZoneCannotBeDeleted(t *testing.T) {
	ts := newTestServer(t)
	status, body := ts.do(t, ts.key, http.MethodPost, "/api/zones", domain.ZoneInput{
		Name: "Front page", SiteURL: "https://news.example.com",
	})
	require.Equal(t, http.StatusCreated, status)
	z := decode[domain.Zone](t, body)
	require.Equal(t, domain.ZoneActive, z.Status)

	status, _ = ts.do(t, ts.key, http.MethodDelete, "/api/zones/"+z.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, status)

	in := z.Input()
	in.Status = domain.ZoneInactive
	status, _ = ts.do(t, ts.key, http.MethodPut, "/api/zones/"+z.ID.String(), in)
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.do(t, ts.key, http.MethodDelete, "/api/zones/"+z.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = ts.do(t, ts.key, http.MethodGet, "/api/zones/"+z.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatsQueryParameters(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	for _, day := range []string{"2026-03-01", "2026-03-08", "2026-03-09"} {
		require.NoError(t, ts.store.RecordStats(ctx, tenant, domain.StatsRow{
			Date: day, CampaignID: 1, Impressions: 100, Clicks: 4,
		}))
	}

	status, body := ts.do(t, ts.key, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[domain.Stats](t, body)
	assert.Len(t, stats.Items, 2)
	assert.EqualValues(t, 200, stats.Totals.Impressions)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	status, body = ts.do(t, ts.key, http.MethodGet, "/api/stats?group_by=campaign&from="+strconv.FormatInt(from, 10), nil)
	require.Equal(t, http.StatusOK, status)
	stats = decode[domain.Stats](t, body)
	require.Len(t, stats.Items, 1)
	assert.EqualValues(t, 300, stats.Items[0].Impressions)

	status, _ = ts.do(t, ts.key, http.MethodGet, "/api/stats?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = ts.do(t, ts.key, http.MethodGet, "/api/stats?group_by=hour", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSyncMarksCampaign(t *testing.T) {
	ts := newTestServer(t)
	_, body := ts.do(t, ts.key, http.MethodPost, "/api/campaigns", validCampaign())
	c := decode[domain.Campaign](t, body)

	_, body = ts.do(t, ts.key, http.MethodGet, "/api/sync/state", nil)
	assert.EqualValues(t, 1, decode[domain.SyncState](t, body).Pending)

	status, _ := ts.do(t, ts.key, http.MethodPost, "/api/sync/campaigns/"+strconv.FormatInt(c.ID, 10), nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = ts.do(t, ts.key, http.MethodPost, "/api/sync/zones/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	_, body = ts.do(t, ts.key, http.MethodGet, "/api/sync/state", nil)
	st := decode[domain.SyncState](t, body)
	assert.Zero(t, st.Pending)
	assert.EqualValues(t, 1, st.CampaignsSynced)
	require.NotNil(t, st.LastSyncedAt)
	assert.Equal(t, testNow.UnixMilli(), *st.LastSyncedAt)
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, ts.key, http.MethodGet, "/api/zones/z-1", nil)
	ts.do(t, ts.key, http.MethodGet, "/api/zones/z-2", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.Requests.WithLabelValues(http.MethodGet, "/api/zones/{id}", "404")))
	assert.Zero(t, testutil.ToFloat64(ts.metrics.InFlight))

	status, _ := ts.do(t, "", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
}
