package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mesa-admin/internal/adapter/api"
	httpadapter "mesa-admin/internal/adapter/http"
	"mesa-admin/internal/adapter/memory"
	"mesa-admin/internal/adapter/usecase"
	"mesa-admin/internal/auth"
	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/session"
)

const tenant = "acme"

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	srv         *httptest.Server
	store       *memory.Store
	key         string
	sessionPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := func() time.Time { return testNow }
	store := memory.New(clock)
	issuer := auth.NewIssuer("test-secret", clock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := httpadapter.NewHandler(store, issuer, logger,
		httpadapter.WithClock(clock),
		httpadapter.WithPublicTenant(tenant),
	)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)

	key, err := issuer.Issue(tenant, domain.APIKeyInput{Email: "owner@acme.test", Role: domain.RoleOwner})
	require.NoError(t, err)
	require.NoError(t, store.CreateKey(context.Background(), tenant, key))

	return &testEnv{
		srv:         srv,
		store:       store,
		key:         key.Token,
		sessionPath: filepath.Join(t.TempDir(), "session.yaml"),
	}
}

// run executes one command line with a fresh App, the way separate adminctl
// invocations share nothing but the session file.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	clock := func() time.Time { return testNow }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := api.NewClient(e.srv.URL, api.WithHTTPClient(e.srv.Client()))
	svc := usecase.New(usecase.Deps{Client: client, Logger: logger, Now: clock})
	sess := session.NewManager(client, session.NewFileStore(e.sessionPath), svc.Users, svc.Tenant, svc, logger)

	var out, errOut bytes.Buffer
	app := New(svc, sess, logger, WithOutput(&out, &errOut), WithClock(clock))
	err := app.Run(context.Background(), args)
	return out.String(), errOut.String(), err
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	_, _, err := e.run(t, "login", e.key)
	require.NoError(t, err)
}

func TestLoginPersistsAcrossRuns(t *testing.T) {
	e := newTestEnv(t)

	out, _, err := e.run(t, "login", "--key", e.key)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as owner@acme.test (owner) on acme")

	out, _, err = e.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "owner@acme.test")
	assert.Contains(t, out, "UTC")

	_, _, err = e.run(t, "logout")
	require.NoError(t, err)

	_, _, err = e.run(t, "whoami")
	assert.True(t, domain.IsKind(err, domain.KindAuth))
}

func TestLoginRejectsBadKey(t *testing.T) {
	e := newTestEnv(t)

	_, _, err := e.run(t, "login", "not-a-key")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindAuth))

	_, _, err = e.run(t, "campaigns", "list")
	assert.True(t, domain.IsKind(err, domain.KindAuth))
}

func TestUnknownCommandPrintsUsage(t *testing.T) {
	e := newTestEnv(t)

	_, errOut, err := e.run(t, "campaigns", "launch")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, errOut, "usage: adminctl campaigns")
	assert.Contains(t, errOut, "pause")
}

func TestCampaignLifecycle(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	out, errOut, err := e.run(t, "campaigns", "create",
		"--name", "Spring sale",
		"--url", "https://shop.example.com/spring",
		"--start", "2026-03-01",
		"--rate", "1.5",
		"--devices", strings.Join([]string{"desktop", "mobile", "tablet", "tv"}, ","),
		"--countries", "US,DE",
		"--countries-method", "blacklist",
		"--payout", "10",
		"--zone-payout", "z1=5",
	)
	require.NoError(t, err)
	assert.Empty(t, errOut)
	var id int64
	_, err = fmt.Sscanf(out, "Created campaign %d", &id)
	require.NoError(t, err)

	out, _, err = e.run(t, "campaigns", "list", "--status", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "Spring sale")
	assert.Contains(t, out, "page 1/1, 1 total")

	out, _, err = e.run(t, "campaigns", "rules", fmt.Sprint(id))
	require.NoError(t, err)
	assert.Contains(t, out, "blacklist")
	assert.Contains(t, out, "US,DE")
	assert.NotContains(t, out, "desktop")

	out, _, err = e.run(t, "campaigns", "update", fmt.Sprint(id), "--payout", "12", "--unique-users", "3")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Updated campaign %d", id))

	rules, err := e.store.ListPayoutRules(context.Background(), tenant, id)
	require.NoError(t, err)
	set := usecase.PayoutSetOf(rules)
	require.NotNil(t, set.Global)
	assert.True(t, set.Global.Equal(decimal.NewFromInt(12)))
	assert.True(t, set.Zones["z1"].Equal(decimal.NewFromInt(5)))

	out, _, err = e.run(t, "campaigns", "get", fmt.Sprint(id))
	require.NoError(t, err)
	assert.Contains(t, out, "Spring sale")
	assert.Contains(t, out, "3 per 24h")
	assert.Contains(t, out, "2026-03-01 00:00")

	out, _, err = e.run(t, "campaigns", "pause", fmt.Sprint(id))
	require.NoError(t, err)
	assert.Contains(t, out, "is paused")

	_, _, err = e.run(t, "campaigns", "get", "abc")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestCreateCampaignReportsFieldErrors(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	_, _, err := e.run(t, "campaigns", "create", "--name", "x", "--url", "not a url")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestZoneDeleteRefusedWhileActive(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	out, _, err := e.run(t, "zones", "create", "--name", "Main site", "--site", "https://pub.example.com")
	require.NoError(t, err)
	var id string
	_, err = fmt.Sscanf(out, "Created zone %s", &id)
	require.NoError(t, err)

	_, _, err = e.run(t, "zones", "delete", id)
	assert.ErrorIs(t, err, domain.ErrZoneActive)

	_, _, err = e.run(t, "zones", "update", id, "--status", "inactive")
	require.NoError(t, err)

	out, _, err = e.run(t, "zones", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted zone "+id)
}

func TestStatsExport(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)
	ctx := context.Background()
	for _, day := range []string{"2026-03-08", "2026-03-09"} {
		require.NoError(t, e.store.RecordStats(ctx, tenant, domain.StatsRow{
			Date:        day,
			CampaignID:  1,
			Impressions: 100,
			Clicks:      4,
			Spend:       decimal.RequireFromString("0.75"),
		}))
	}

	out, _, err := e.run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-09")
	assert.Contains(t, out, "Impressions")

	path := filepath.Join(t.TempDir(), "stats.xlsx")
	out, _, err = e.run(t, "stats", "--export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 rows")

	xl, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer xl.Close()
	rows, err := xl.GetRows(xl.GetSheetList()[0])
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestStatsRejectsBadTime(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	_, _, err := e.run(t, "stats", "--from", "yesterday")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}
