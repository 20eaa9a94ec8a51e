package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error at the point it originates so callers can switch
// on it instead of inspecting messages.
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindAuth       Kind = "auth"
	KindNetwork    Kind = "network"
	KindValidation Kind = "validation"
	KindBusiness   Kind = "business"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrCompletedCampaign = errors.New("completed campaigns cannot be reactivated")
	ErrInvalidStatus     = errors.New("status must be active or paused")
	ErrZoneActive        = errors.New("zones can only be deleted while inactive")
	ErrDuplicatePayout   = errors.New("payout rule already exists for this zone")
	ErrTargetingUpdate   = errors.New("campaign saved but targeting rules were not updated")
)

// Error is the error type returned across the client boundary.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Fields maps a JSON field name to its validation message.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// BusinessError wraps a sentinel error as a KindBusiness error.
func BusinessError(err error) *Error {
	return &Error{Kind: KindBusiness, Message: err.Error(), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return KindAuth
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
