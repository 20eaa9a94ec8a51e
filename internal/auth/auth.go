// Package auth issues and verifies the devserver's API keys. A key is an
// HS256-signed JWT carrying the identity it was issued to.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mesa-admin/internal/core/domain"
)

var ErrInvalidKey = errors.New("invalid or expired api key")

// Claims are the JWT claims of an API key. The subject is the key id.
type Claims struct {
	Namespace   string      `json:"ns"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	Permissions []string    `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies keys with one shared secret.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer returns an issuer signing keys with secret. A nil now uses
// time.Now.
func NewIssuer(secret string, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(secret), now: now}
}

// Issue creates a key for a team member of tenant. A nil expiresAt never
// expires.
func (i *Issuer) Issue(tenant string, in domain.APIKeyInput) (domain.APIKey, error) {
	now := i.now()
	id := uuid.NewString()
	claims := Claims{
		Namespace:   tenant,
		Email:       in.Email,
		Role:        in.Role,
		Permissions: in.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       id,
			Subject:  id,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if in.ExpiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(domain.EpochTime(*in.ExpiresAt))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return domain.APIKey{}, fmt.Errorf("sign api key: %w", err)
	}
	perms := in.Permissions
	if perms == nil {
		perms = []string{}
	}
	return domain.APIKey{
		ID:          id,
		Token:       token,
		Email:       in.Email,
		Role:        in.Role,
		Permissions: perms,
		CreatedAt:   now.UnixMilli(),
		ExpiresAt:   in.ExpiresAt,
	}, nil
}

// Verify checks the signature and expiry of token and returns the identity
// it was issued to.
func (i *Issuer) Verify(token string) (*domain.UserIdentity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidKey
	}
	return &domain.UserIdentity{
		Namespace:   claims.Namespace,
		UserID:      claims.Subject,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}
