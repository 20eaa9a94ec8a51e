package usecase

import (
	"context"
	"net/url"
	"time"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/core/port"
)

const identityKey = "me"

// UserUseCase validates the caller's identity and manages team API keys.
type UserUseCase struct {
	client port.APIClient
	cache  port.Cache
	ttl    time.Duration
}

// NewUserUseCase builds the identity and API key service.
func NewUserUseCase(deps Deps) *UserUseCase {
	deps = deps.withDefaults()
	return &UserUseCase{
		client: deps.Client,
		cache:  deps.Caches.Named(cacheIdentity),
		ttl:    deps.TTL.Identity,
	}
}

// Me returns the identity behind the current API key. fresh bypasses the
// cache and revalidates the key against the backend.
func (u *UserUseCase) Me(ctx context.Context, fresh bool) (*domain.UserIdentity, error) {
	var id domain.UserIdentity
	if !fresh && getCached(ctx, u.cache, identityKey, &id) {
		return &id, nil
	}
	if err := u.client.Get(ctx, "/api/me", &id); err != nil {
		return nil, err
	}
	setCached(ctx, u.cache, identityKey, id, u.ttl)
	return &id, nil
}

// Keys lists the tenant's API keys.
func (u *UserUseCase) Keys(ctx context.Context) ([]domain.APIKey, error) {
	var keys []domain.APIKey
	if err := u.client.Get(ctx, "/api/keys", &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreateKey issues a key for a team member.
func (u *UserUseCase) CreateKey(ctx context.Context, in domain.APIKeyInput) (*domain.APIKey, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	var key domain.APIKey
	if err := u.client.Post(ctx, "/api/keys", in, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeKey deletes a key by token.
func (u *UserUseCase) RevokeKey(ctx context.Context, token string) error {
	return u.client.Delete(ctx, "/api/keys/"+url.PathEscape(token), nil)
}
