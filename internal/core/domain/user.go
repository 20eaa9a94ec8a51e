package domain

import "time"

// Role is a team member's role within a tenant.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RolePublisher  Role = "publisher"
	RoleAdvertiser Role = "advertiser"
)

// UserIdentity is the caller behind an API key, as returned by GET /api/me.
type UserIdentity struct {
	Namespace   string   `json:"namespace" yaml:"namespace"`
	UserID      string   `json:"user_id" yaml:"user_id"`
	Email       string   `json:"email" yaml:"email"`
	Role        Role     `json:"role" yaml:"role"`
	Permissions []string `json:"permissions" yaml:"permissions"`
}

// Can reports whether the identity holds permission p. Owners hold every
// permission.
func (u UserIdentity) Can(p string) bool {
	if u.Role == RoleOwner {
		return true
	}
	for _, have := range u.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// APIKey is a team member's key. A nil ExpiresAt never expires; a key whose
// expiry has passed is shown as revoked even though the backend still lists
// it.
type APIKey struct {
	ID          string   `json:"id,omitempty"`
	Token       string   `json:"token"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
	CreatedAt   int64    `json:"created_at"`
	ExpiresAt   *int64   `json:"expires_at"`
}

// Revoked reports whether the key has expired at now.
func (k APIKey) Revoked(now time.Time) bool {
	if k.ExpiresAt == nil {
		return false
	}
	return !EpochTime(*k.ExpiresAt).After(now)
}

// APIKeyInput is the body of POST /api/keys.
type APIKeyInput struct {
	Email       string   `json:"email" validate:"required,email"`
	Role        Role     `json:"role" validate:"required,oneof=owner manager publisher advertiser"`
	Permissions []string `json:"permissions,omitempty"`
	ExpiresAt   *int64   `json:"expires_at,omitempty"`
}
