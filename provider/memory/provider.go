// Package memory provides an in-process [provider.Provider] used in tests,
// demos, and offline development. It verifies credentials against an
// in-memory account table, mints HS256 JWT access tokens, and persists the
// current session through an injected [storage.Storage] so a restart (a new
// Provider over the same storage) restores the logged-in state.
//
// It is a development double: password digests use plain SHA-256 and must
// never back a production deployment.
package memory

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mobilisk/authcore/provider"
	"github.com/mobilisk/authcore/storage"
)

const (
	defaultStorageKey     = "authcore.session"
	defaultAccessTokenTTL = time.Hour
	defaultMinPassword    = 6
)

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// SigningKey signs minted access tokens. Required.
	SigningKey []byte
	// Storage persists the current session bundle. Optional; nil disables
	// persistence.
	Storage storage.Storage
	// StorageKey is the key the session bundle is stored under.
	StorageKey string
	// AccessTokenTTL bounds minted session lifetime.
	AccessTokenTTL time.Duration
	// MinPasswordLength is the provider-side password policy, separate from
	// the client-side validation rules.
	MinPasswordLength int
}

type account struct {
	id           string
	email        string
	passwordHash [32]byte
	metadata     map[string]any
	createdAt    time.Time
}

// Provider defines a public type used by authcore APIs.
//
// Provider instances are safe for concurrent use. Change notifications are
// serialized: no two callbacks run concurrently.
type Provider struct {
	cfg Config

	mu       sync.Mutex
	accounts map[string]*account
	session  *provider.Session

	notifyMu     sync.Mutex
	listeners    map[int]func(provider.AuthChangeEvent, *provider.Session)
	nextListener int
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation fails.
func New(cfg Config) (*Provider, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("signing key required")
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = defaultStorageKey
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = defaultAccessTokenTTL
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = defaultMinPassword
	}

	return &Provider{
		cfg:       cfg,
		accounts:  make(map[string]*account),
		listeners: make(map[int]func(provider.AuthChangeEvent, *provider.Session)),
	}, nil
}

// Seed creates an account without firing change notifications or issuing a
// session. Intended for test and demo fixtures.
func (p *Provider) Seed(email, password string, metadata map[string]any) error {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" || !strings.Contains(key, "@") {
		return provider.ErrInvalidEmail
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[key]; exists {
		return provider.ErrUserAlreadyRegistered
	}
	p.accounts[key] = &account{
		id:           uuid.NewString(),
		email:        key,
		passwordHash: sha256.Sum256([]byte(password)),
		metadata:     metadata,
		createdAt:    time.Now(),
	}
	return nil
}

// SignUp registers an account, issues a session for it, and notifies
// subscribers with SIGNED_IN.
func (p *Provider) SignUp(_ context.Context, params provider.SignUpParams) (*provider.AuthData, error) {
	key := strings.ToLower(strings.TrimSpace(params.Email))
	if key == "" || !strings.Contains(key, "@") {
		return nil, provider.ErrInvalidEmail
	}
	if len(params.Password) < p.cfg.MinPasswordLength {
		return nil, provider.ErrWeakPassword
	}

	p.mu.Lock()
	if _, exists := p.accounts[key]; exists {
		p.mu.Unlock()
		return nil, provider.ErrUserAlreadyRegistered
	}

	acct := &account{
		id:           uuid.NewString(),
		email:        key,
		passwordHash: sha256.Sum256([]byte(params.Password)),
		metadata:     params.Data,
		createdAt:    time.Now(),
	}
	p.accounts[key] = acct

	session, err := p.mintSessionLocked(acct)
	if err != nil {
		delete(p.accounts, key)
		p.mu.Unlock()
		return nil, err
	}
	p.session = session
	p.mu.Unlock()

	p.persist(session)
	p.notify(provider.EventSignedIn, session)

	return &provider.AuthData{User: session.User, Session: session}, nil
}

// SignInWithPassword verifies credentials and issues a fresh session.
// Unknown accounts and wrong passwords are indistinguishable to the caller.
func (p *Provider) SignInWithPassword(_ context.Context, email, password string) (*provider.AuthData, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	acct, ok := p.accounts[key]
	if !ok {
		p.mu.Unlock()
		return nil, provider.ErrInvalidCredentials
	}
	hash := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(hash[:], acct.passwordHash[:]) != 1 {
		p.mu.Unlock()
		return nil, provider.ErrInvalidCredentials
	}

	session, err := p.mintSessionLocked(acct)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.session = session
	p.mu.Unlock()

	p.persist(session)
	p.notify(provider.EventSignedIn, session)

	return &provider.AuthData{User: session.User, Session: session}, nil
}

// SignOut destroys the current session and notifies subscribers with
// SIGNED_OUT. Signing out with no session held is not an error.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()

	if p.cfg.Storage != nil {
		// Best effort: a failed removal must not block the sign-out.
		_ = p.cfg.Storage.RemoveItem(ctx, p.cfg.StorageKey)
	}

	p.notify(provider.EventSignedOut, nil)
	return nil
}

// GetSession returns the current session, restoring it from storage when
// the in-memory copy is absent. Expired sessions are discarded. A missing
// session is (nil, nil), not an error.
func (p *Provider) GetSession(ctx context.Context) (*provider.Session, error) {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()

	now := time.Now()
	if session != nil {
		if !session.Expired(now) {
			return session, nil
		}
		p.mu.Lock()
		p.session = nil
		p.mu.Unlock()
		return nil, nil
	}

	restored := p.restore(ctx)
	if restored == nil || restored.Expired(now) {
		return nil, nil
	}

	p.mu.Lock()
	p.session = restored
	p.mu.Unlock()
	return restored, nil
}

// OnAuthStateChange registers a session-change callback. INITIAL_SESSION
// fires asynchronously with the current session shortly after registration,
// then SIGNED_IN/SIGNED_OUT follow each state change. Unsubscribe guarantees
// no callback runs after it returns.
func (p *Provider) OnAuthStateChange(fn func(event provider.AuthChangeEvent, session *provider.Session)) (*provider.Subscription, error) {
	if fn == nil {
		return nil, errors.New("callback required")
	}

	p.notifyMu.Lock()
	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn
	p.notifyMu.Unlock()

	go func() {
		p.mu.Lock()
		session := p.session
		p.mu.Unlock()

		p.notifyMu.Lock()
		defer p.notifyMu.Unlock()
		if listener, ok := p.listeners[id]; ok {
			listener(provider.EventInitialSession, session)
		}
	}()

	return &provider.Subscription{
		Unsubscribe: func() {
			p.notifyMu.Lock()
			delete(p.listeners, id)
			p.notifyMu.Unlock()
		},
	}, nil
}

func (p *Provider) mintSessionLocked(acct *account) (*provider.Session, error) {
	now := time.Now()
	expiresAt := now.Add(p.cfg.AccessTokenTTL)

	claims := jwt.MapClaims{
		"sub":   acct.id,
		"email": acct.email,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.cfg.SigningKey)
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]any, len(acct.metadata))
	for k, v := range acct.metadata {
		metadata[k] = v
	}

	return &provider.Session{
		AccessToken:  signed,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    expiresAt.Unix(),
		User: &provider.User{
			ID:           acct.id,
			Email:        acct.email,
			UserMetadata: metadata,
			CreatedAt:    acct.createdAt,
		},
	}, nil
}

func (p *Provider) persist(session *provider.Session) {
	if p.cfg.Storage == nil {
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	// Storage failures are non-fatal; the session simply will not survive
	// a restart.
	_ = p.cfg.Storage.SetItem(context.Background(), p.cfg.StorageKey, string(data))
}

func (p *Provider) restore(ctx context.Context) *provider.Session {
	if p.cfg.Storage == nil {
		return nil
	}
	data, err := p.cfg.Storage.GetItem(ctx, p.cfg.StorageKey)
	if err != nil {
		// ErrNoValue and transport failures alike mean "no stored value".
		return nil
	}

	var session provider.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil
	}
	return &session
}

func (p *Provider) notify(event provider.AuthChangeEvent, session *provider.Session) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	for _, listener := range p.listeners {
		listener(event, session)
	}
}
