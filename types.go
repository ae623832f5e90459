package authcore

import (
	"github.com/mobilisk/authcore/provider"
)

// AuthSession is the opaque token bundle owned by the client for the
// duration of a logged-in period. Alias of [provider.Session].
type AuthSession = provider.Session

// AuthUser is the identity derived from an [AuthSession]. Alias of
// [provider.User].
type AuthUser = provider.User

// AuthState is the client state machine's observable state.
//
// Invariants: User is non-nil iff Session is non-nil (both set and cleared
// together), and Loading is true only during initial session resolution or
// an in-flight sign-out.
type AuthState struct {
	User    *AuthUser
	Session *AuthSession
	Loading bool
}

// Authenticated reports whether a session is currently held.
func (s AuthState) Authenticated() bool {
	return s.Session != nil
}

// Credentials carries the raw sign-in or registration input collected by
// the UI. FullName is required only for registration.
type Credentials struct {
	Email    string
	Password string
	FullName string
}

// ValidationResult is the outcome of a single-field check. Error is
// non-empty iff IsValid is false.
type ValidationResult struct {
	IsValid bool
	Error   string
}

// FormValidationResult aggregates per-field outcomes for one form kind.
// IsValid is true iff Errors is empty; keys are present only for fields
// that failed.
type FormValidationResult struct {
	IsValid bool
	Errors  map[string]string
}
