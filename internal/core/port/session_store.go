package port

import "mesa-admin/internal/core/domain"

// SessionState is what survives between CLI invocations.
type SessionState struct {
	APIKey   string               `yaml:"api_key"`
	Identity *domain.UserIdentity `yaml:"identity,omitempty"`
}

// SessionStore persists the session. Load returns a zero state and no error
// when nothing has been saved.
type SessionStore interface {
	Load() (SessionState, error)
	Save(state SessionState) error
	Clear() error
}
