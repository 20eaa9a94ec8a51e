// Package session holds the authenticated state of the admin client: the API
// key, the identity behind it and the tenant settings.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
)

// IdentityService validates an API key against the backend.
type IdentityService interface {
	Me(ctx context.Context, fresh bool) (*domain.UserIdentity, error)
}

// TenantService reads and saves the tenant settings.
type TenantService interface {
	Get(ctx context.Context, fresh bool) (*domain.TenantSettings, error)
	Update(ctx context.Context, s domain.TenantSettings) (*domain.TenantSettings, error)
}

// Invalidator drops every cached response.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

// Manager is the single owner of session state. Logging out clears the
// stored key, the client's bearer token and every cache.
type Manager struct {
	client port.APIClient
	store  port.SessionStore
	users  IdentityService
	tenant TenantService
	caches Invalidator
	logger *slog.Logger

	mu          sync.RWMutex
	state       port.SessionState
	networkDown bool
}

// NewManager wires the session lifecycle to the API client and store.
func NewManager(
	client port.APIClient,
	store port.SessionStore,
	users IdentityService,
	tenant TenantService,
	caches Invalidator,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client: client,
		store:  store,
		users:  users,
		tenant: tenant,
		caches: caches,
		logger: logger,
	}
}

// Login validates apiKey and persists it with the identity it belongs to.
// A rejected key leaves the previous session untouched.
func (m *Manager) Login(ctx context.Context, apiKey string) (*domain.UserIdentity, error) {
	if apiKey == "" {
		return nil, domain.NewError(domain.KindValidation, "api key is required", nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	previous := m.state.APIKey
	m.caches.InvalidateAll(ctx)
	m.client.SetAPIKey(apiKey)
	id, err := m.users.Me(ctx, true)
	if err != nil {
		m.client.SetAPIKey(previous)
		return nil, err
	}

	m.state = port.SessionState{APIKey: apiKey, Identity: id}
	m.networkDown = false
	if err := m.store.Save(m.state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return id, nil
}

// Restore loads the stored session. When override is set it replaces the
// stored key for this process only. The identity is revalidated against the
// backend when none is stored; a rejected key logs the session out.
func (m *Manager) Restore(ctx context.Context, override string) (*domain.UserIdentity, error) {
	state, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if override != "" && override != state.APIKey {
		state = port.SessionState{APIKey: override}
	}
	if state.APIKey == "" {
		return nil, domain.NewError(domain.KindAuth, "not logged in", domain.ErrNotAuthenticated)
	}

	m.mu.Lock()
	m.state = state
	m.client.SetAPIKey(state.APIKey)
	m.mu.Unlock()

	if state.Identity != nil {
		return state.Identity, nil
	}

	id, err := m.users.Me(ctx, true)
	if err != nil {
		return nil, m.HandleError(ctx, err)
	}
	m.mu.Lock()
	m.state.Identity = id
	m.mu.Unlock()
	return id, nil
}

// Logout forgets the key and drops every cache. It is safe to call when
// nobody is logged in.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = port.SessionState{}
	m.client.SetAPIKey("")
	m.caches.InvalidateAll(ctx)
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("session clear failed", slog.Any("error", err))
		return err
	}
	return nil
}

// Require returns the current identity or an auth error when there is none.
func (m *Manager) Require() (*domain.UserIdentity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state.APIKey == "" || m.state.Identity == nil {
		return nil, domain.NewError(domain.KindAuth, "not logged in", domain.ErrNotAuthenticated)
	}
	id := *m.state.Identity
	return &id, nil
}

// Identity returns the current identity, or nil.
func (m *Manager) Identity() *domain.UserIdentity {
	id, err := m.Require()
	if err != nil {
		return nil
	}
	return id
}

// Tenant returns the tenant settings through the tenant cache.
func (m *Manager) Tenant(ctx context.Context) (*domain.TenantSettings, error) {
	s, err := m.tenant.Get(ctx, false)
	if err != nil {
		return nil, m.HandleError(ctx, err)
	}
	return s, nil
}

// SaveTenant updates the tenant settings.
func (m *Manager) SaveTenant(ctx context.Context, s domain.TenantSettings) (*domain.TenantSettings, error) {
	out, err := m.tenant.Update(ctx, s)
	if err != nil {
		return nil, m.HandleError(ctx, err)
	}
	return out, nil
}

// HandleError applies the session policy to err and returns it unchanged:
// auth errors log the session out and network errors suppress automatic
// retries until ResetNetwork.
func (m *Manager) HandleError(ctx context.Context, err error) error {
	switch domain.KindOf(err) {
	case domain.KindAuth:
		m.logger.Warn("api key rejected, logging out", slog.Any("error", err))
		if lerr := m.Logout(ctx); lerr != nil {
			m.logger.Warn("logout failed", slog.Any("error", lerr))
		}
	case domain.KindNetwork:
		m.mu.Lock()
		m.networkDown = true
		m.mu.Unlock()
	}
	return err
}

// RetriesSuppressed reports whether a network error was seen since the last
// ResetNetwork.
func (m *Manager) RetriesSuppressed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.networkDown
}

// ResetNetwork re-enables automatic retries after a manual refresh.
func (m *Manager) ResetNetwork() {
	m.mu.Lock()
	m.networkDown = false
	m.mu.Unlock()
}
