package provider

import (
	"context"
	"errors"
	"time"
)

// Provider wire-level error values. The message text mirrors what remote
// identity services put on the wire; authcore's redaction layer matches on
// these substrings and must never show them to an end user directly.
var (
	// ErrInvalidCredentials is an exported constant or variable used by the authentication client.
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	// ErrUserAlreadyRegistered is an exported constant or variable used by the authentication client.
	ErrUserAlreadyRegistered = errors.New("User already registered")
	// ErrWeakPassword is an exported constant or variable used by the authentication client.
	ErrWeakPassword = errors.New("Password should be at least 6 characters")
	// ErrInvalidEmail is an exported constant or variable used by the authentication client.
	ErrInvalidEmail = errors.New("Invalid email")
	// ErrSessionMissing is an exported constant or variable used by the authentication client.
	ErrSessionMissing = errors.New("Auth session missing")
)

// AuthChangeEvent tags a session-change notification delivered through
// [Provider.OnAuthStateChange].
type AuthChangeEvent string

const (
	// EventInitialSession is an exported constant or variable used by the authentication client.
	EventInitialSession AuthChangeEvent = "INITIAL_SESSION"
	// EventSignedIn is an exported constant or variable used by the authentication client.
	EventSignedIn AuthChangeEvent = "SIGNED_IN"
	// EventSignedOut is an exported constant or variable used by the authentication client.
	EventSignedOut AuthChangeEvent = "SIGNED_OUT"
	// EventTokenRefreshed is an exported constant or variable used by the authentication client.
	EventTokenRefreshed AuthChangeEvent = "TOKEN_REFRESHED"
	// EventUserUpdated is an exported constant or variable used by the authentication client.
	EventUserUpdated AuthChangeEvent = "USER_UPDATED"
)

// User is the authenticated identity attached to a [Session]. It exists only
// while its owning session exists; authcore never gives it an independent
// lifecycle.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// DisplayName returns the full_name metadata entry, or "" when the profile
// carries none.
func (u *User) DisplayName() string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	if name, ok := u.UserMetadata["full_name"].(string); ok {
		return name
	}
	return ""
}

// Session is the opaque token bundle issued by a provider. ExpiresAt is a
// Unix timestamp; a zero value means the provider did not communicate expiry.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`
}

// Expired reports whether the session's expiry, when known, has passed.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return s.ExpiresAt != 0 && now.Unix() >= s.ExpiresAt
}

// SignUpParams is the input for [Provider.SignUp]. Data is attached to the
// created account as profile metadata (full_name and similar).
type SignUpParams struct {
	Email    string
	Password string
	Data     map[string]any
}

// AuthData bundles the user and session returned by a successful sign-in or
// sign-up call. Session may be nil when the provider defers issuance (for
// example, pending email confirmation).
type AuthData struct {
	User    *User
	Session *Session
}

// Subscription is the handle returned by [Provider.OnAuthStateChange].
// Unsubscribe releases the callback registration; it must be safe to call
// more than once and must guarantee no callback runs after it returns.
type Subscription struct {
	Unsubscribe func()
}

// Provider is the identity-provider contract consumed by the authcore
// client. All methods taking a context are asynchronous remote calls from
// the caller's point of view; timeout policy belongs to the implementation.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*AuthData, error)
	SignUp(ctx context.Context, params SignUpParams) (*AuthData, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(fn func(event AuthChangeEvent, session *Session)) (*Subscription, error)
}
