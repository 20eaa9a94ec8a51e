package usecase

import (
	"context"
	"time"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
)

const (
	tenantKey       = "settings"
	publicTenantKey = "public"
)

// TenantUseCase reads and updates tenant branding and timezone.
type TenantUseCase struct {
	client port.APIClient
	cache  port.Cache
	ttl    time.Duration
}

// NewTenantUseCase builds the tenant settings service.
func NewTenantUseCase(deps Deps) *TenantUseCase {
	deps = deps.withDefaults()
	return &TenantUseCase{
		client: deps.Client,
		cache:  deps.Caches.Named(cacheTenant),
		ttl:    deps.TTL.Tenant,
	}
}

// Get returns the tenant settings, cached unless fresh is set.
func (u *TenantUseCase) Get(ctx context.Context, fresh bool) (*domain.TenantSettings, error) {
	var s domain.TenantSettings
	if !fresh && getCached(ctx, u.cache, tenantKey, &s) {
		return &s, nil
	}
	if err := u.client.Get(ctx, "/api/tenant", &s); err != nil {
		return nil, err
	}
	setCached(ctx, u.cache, tenantKey, s, u.ttl)
	return &s, nil
}

// Public returns the branding shown before login. It needs no API key.
func (u *TenantUseCase) Public(ctx context.Context) (*domain.PublicTenant, error) {
	var p domain.PublicTenant
	if getCached(ctx, u.cache, publicTenantKey, &p) {
		return &p, nil
	}
	if err := u.client.Get(ctx, "/api/tenant/public", &p); err != nil {
		return nil, err
	}
	setCached(ctx, u.cache, publicTenantKey, p, u.ttl)
	return &p, nil
}

// Update validates and saves s, then refreshes the cached copy.
func (u *TenantUseCase) Update(ctx context.Context, s domain.TenantSettings) (*domain.TenantSettings, error) {
	if err := domain.Validate(s); err != nil {
		return nil, err
	}
	var out domain.TenantSettings
	if err := u.client.Put(ctx, "/api/tenant", s, &out); err != nil {
		return nil, err
	}
	u.cache.Invalidate(ctx)
	setCached(ctx, u.cache, tenantKey, out, u.ttl)
	return &out, nil
}

// Invalidate drops the cached settings.
func (u *TenantUseCase) Invalidate(ctx context.Context) {
	u.cache.Invalidate(ctx)
}
