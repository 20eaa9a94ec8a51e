package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mesa-admin/internal/adapter/usecase"
	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
	"mesa-admin/internal/core/port/mocks"
)

var alice = domain.UserIdentity{
	Namespace:   "acme",
	UserID:      "u-1",
	Email:       "alice@example.com",
	Role:        domain.RoleManager,
	Permissions: []string{"campaigns:write"},
}

func newManager(t *testing.T) (*Manager, *mocks.MockAPIClient, *FileStore) {
	client := mocks.NewMockAPIClient(t)
	store := NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	svc := usecase.New(usecase.Deps{Client: client})
	return NewManager(client, store, svc.Users, svc.Tenant, svc, nil), client, store
}

func meReturns(id domain.UserIdentity) func(context.Context, string, any) {
	return func(_ context.Context, _ string, out any) {
		*out.(*domain.UserIdentity) = id
	}
}

func TestLoginPersistsSession(t *testing.T) {
	m, client, store := newManager(t)
	client.EXPECT().SetAPIKey("key-1").Return().Once()
	client.EXPECT().Get(mock.Anything, "/api/me", mock.Anything).Run(meReturns(alice)).Return(nil).Once()

	id, err := m.Login(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.Email)

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "key-1", state.APIKey)
	require.NotNil(t, state.Identity)
	assert.Equal(t, alice, *state.Identity)

	info, err := os.Stat(store.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoginRejectedKeyKeepsPreviousSession(t *testing.T) {
	m, client, store := newManager(t)
	client.EXPECT().SetAPIKey("bad").Return().Once()
	client.EXPECT().SetAPIKey("").Return().Once()
	client.EXPECT().
		Get(mock.Anything, "/api/me", mock.Anything).
		Return(&domain.Error{Kind: domain.KindAuth, Status: 401, Message: "invalid api key"}).
		Once()

	_, err := m.Login(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindAuth))
	assert.Nil(t, m.Identity())

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.APIKey)
}

func TestRestoreWithoutSession(t *testing.T) {
	m, _, _ := newManager(t)

	_, err := m.Restore(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.True(t, domain.IsKind(err, domain.KindAuth))
}

func TestRestoreUsesStoredIdentity(t *testing.T) {
	m, client, store := newManager(t)
	require.NoError(t, store.Save(port.SessionState{APIKey: "key-1", Identity: &alice}))
	client.EXPECT().SetAPIKey("key-1").Return().Once()

	id, err := m.Restore(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, alice, *id)

	got, err := m.Require()
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
}

func TestRestoreLogsOutOnRejectedKey(t *testing.T) {
	m, client, store := newManager(t)
	require.NoError(t, store.Save(port.SessionState{APIKey: "stale"}))
	client.EXPECT().SetAPIKey("stale").Return().Once()
	client.EXPECT().SetAPIKey("").Return().Once()
	client.EXPECT().
		Get(mock.Anything, "/api/me", mock.Anything).
		Return(&domain.Error{Kind: domain.KindAuth, Status: 401, Message: "key expired"}).
		Once()

	_, err := m.Restore(context.Background(), "")
	require.Error(t, err)

	_, statErr := os.Stat(store.path)
	assert.True(t, os.IsNotExist(statErr))
	_, err = m.Require()
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestNetworkErrorSuppressesRetries(t *testing.T) {
	m, _, _ := newManager(t)
	netErr := domain.NewError(domain.KindNetwork, "connection refused", nil)

	assert.Same(t, netErr, m.HandleError(context.Background(), netErr))
	assert.True(t, m.RetriesSuppressed())

	m.ResetNetwork()
	assert.False(t, m.RetriesSuppressed())
}

func TestLogoutDropsCachedTenant(t *testing.T) {
	m, client, store := newManager(t)
	require.NoError(t, store.Save(port.SessionState{APIKey: "key-1", Identity: &alice}))
	client.EXPECT().SetAPIKey("key-1").Return().Once()
	client.EXPECT().SetAPIKey("").Return().Twice()
	client.EXPECT().
		Get(mock.Anything, "/api/tenant", mock.Anything).
		Run(func(_ context.Context, _ string, out any) {
			*out.(*domain.TenantSettings) = domain.TenantSettings{CompanyName: "Acme", Timezone: "UTC"}
		}).
		Return(nil).
		Twice()

	ctx := context.Background()
	_, err := m.Restore(ctx, "")
	require.NoError(t, err)

	_, err = m.Tenant(ctx)
	require.NoError(t, err)
	_, err = m.Tenant(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx))
	require.NoError(t, m.Logout(ctx))

	_, err = m.Tenant(ctx)
	require.NoError(t, err)
}
