package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mobilisk/authcore/provider"
	memstore "github.com/mobilisk/authcore/storage/memory"
)

var testSigningKey = []byte("test-signing-key")

func newTestProvider(t *testing.T, mutate func(*Config)) *Provider {
	t.Helper()

	cfg := Config{SigningKey: testSigningKey}
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestNewRequiresSigningKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing signing key")
	}
}

func TestSignUpSignOutSignInLifecycle(t *testing.T) {
	p := newTestProvider(t, nil)
	ctx := context.Background()

	data, err := p.SignUp(ctx, provider.SignUpParams{
		Email:    "user@example.com",
		Password: "secret-pw",
		Data:     map[string]any{"full_name": "Jane Doe"},
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if data.Session == nil || data.User == nil {
		t.Fatal("sign up must issue a session and user")
	}
	if data.User.Email != "user@example.com" {
		t.Fatalf("user email = %q", data.User.Email)
	}
	if data.User.DisplayName() != "Jane Doe" {
		t.Fatalf("display name = %q", data.User.DisplayName())
	}

	session, err := p.GetSession(ctx)
	if err != nil || session == nil {
		t.Fatalf("get session after sign up: %v, %v", session, err)
	}

	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	session, err = p.GetSession(ctx)
	if err != nil {
		t.Fatalf("get session after sign out: %v", err)
	}
	if session != nil {
		t.Fatal("session must be gone after sign out")
	}

	data, err = p.SignInWithPassword(ctx, "user@example.com", "secret-pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if data.Session == nil {
		t.Fatal("sign in must issue a session")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	p := newTestProvider(t, nil)
	ctx := context.Background()

	params := provider.SignUpParams{Email: "user@example.com", Password: "secret-pw"}
	if _, err := p.SignUp(ctx, params); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, err := p.SignUp(ctx, params); !errors.Is(err, provider.ErrUserAlreadyRegistered) {
		t.Fatalf("duplicate sign up error = %v", err)
	}
}

func TestSignUpEmailNormalization(t *testing.T) {
	p := newTestProvider(t, nil)
	ctx := context.Background()

	if _, err := p.SignUp(ctx, provider.SignUpParams{Email: "  User@Example.COM  ", Password: "secret-pw"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := p.SignInWithPassword(ctx, "user@example.com", "secret-pw"); err != nil {
		t.Fatalf("case-folded sign in: %v", err)
	}
}

func TestSignUpRejectsWeakPassword(t *testing.T) {
	p := newTestProvider(t, func(cfg *Config) {
		cfg.MinPasswordLength = 8
	})

	_, err := p.SignUp(context.Background(), provider.SignUpParams{Email: "user@example.com", Password: "short"})
	if !errors.Is(err, provider.ErrWeakPassword) {
		t.Fatalf("weak password error = %v", err)
	}
}

func TestSignUpRejectsMalformedEmail(t *testing.T) {
	p := newTestProvider(t, nil)

	_, err := p.SignUp(context.Background(), provider.SignUpParams{Email: "not-an-email", Password: "secret-pw"})
	if !errors.Is(err, provider.ErrInvalidEmail) {
		t.Fatalf("malformed email error = %v", err)
	}
}

func TestSignInWrongPasswordAndUnknownUserIndistinguishable(t *testing.T) {
	p := newTestProvider(t, nil)
	ctx := context.Background()

	if err := p.Seed("user@example.com", "secret-pw", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, wrongPw := p.SignInWithPassword(ctx, "user@example.com", "bad-pw")
	_, unknown := p.SignInWithPassword(ctx, "ghost@example.com", "bad-pw")

	if !errors.Is(wrongPw, provider.ErrInvalidCredentials) || !errors.Is(unknown, provider.ErrInvalidCredentials) {
		t.Fatalf("errors = %v / %v, want identical invalid credentials", wrongPw, unknown)
	}
}

func TestAccessTokenClaims(t *testing.T) {
	p := newTestProvider(t, func(cfg *Config) {
		cfg.AccessTokenTTL = 30 * time.Minute
	})

	data, err := p.SignUp(context.Background(), provider.SignUpParams{Email: "user@example.com", Password: "secret-pw"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	token, err := jwt.Parse(data.Session.AccessToken, func(*jwt.Token) (any, error) {
		return testSigningKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type %T", token.Claims)
	}
	if claims["sub"] != data.User.ID {
		t.Fatalf("sub = %v, want %s", claims["sub"], data.User.ID)
	}
	if claims["email"] != "user@example.com" {
		t.Fatalf("email claim = %v", claims["email"])
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("exp claim: %v", err)
	}
	if exp.Unix() != data.Session.ExpiresAt {
		t.Fatalf("exp claim %d != session expiry %d", exp.Unix(), data.Session.ExpiresAt)
	}
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	first := newTestProvider(t, func(cfg *Config) {
		cfg.Storage = store
	})
	data, err := first.SignUp(ctx, provider.SignUpParams{Email: "user@example.com", Password: "secret-pw"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	// A fresh provider over the same storage models a process restart.
	second := newTestProvider(t, func(cfg *Config) {
		cfg.Storage = store
	})
	restored, err := second.GetSession(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored == nil {
		t.Fatal("session must survive restart")
	}
	if restored.AccessToken != data.Session.AccessToken {
		t.Fatal("restored session differs from issued session")
	}
	if restored.User == nil || restored.User.ID != data.User.ID {
		t.Fatalf("restored user = %+v", restored.User)
	}
}

func TestSignOutRemovesPersistedSession(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	p := newTestProvider(t, func(cfg *Config) {
		cfg.Storage = store
	})
	if _, err := p.SignUp(ctx, provider.SignUpParams{Email: "user@example.com", Password: "secret-pw"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	restarted := newTestProvider(t, func(cfg *Config) {
		cfg.Storage = store
	})
	session, err := restarted.GetSession(ctx)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if session != nil {
		t.Fatal("signed-out session must not survive restart")
	}
}

func TestExpiredSessionDiscarded(t *testing.T) {
	p := newTestProvider(t, func(cfg *Config) {
		cfg.AccessTokenTTL = time.Nanosecond
	})
	ctx := context.Background()

	if _, err := p.SignUp(ctx, provider.SignUpParams{Email: "user@example.com", Password: "secret-pw"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	time.Sleep(1100 * time.Millisecond) // ExpiresAt has one-second resolution

	session, err := p.GetSession(ctx)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if session != nil {
		t.Fatal("expired session must be discarded")
	}
}

func TestOnAuthStateChangeFiresInitialSession(t *testing.T) {
	p := newTestProvider(t, nil)

	events := make(chan provider.AuthChangeEvent, 4)
	sub, err := p.OnAuthStateChange(func(event provider.AuthChangeEvent, _ *provider.Session) {
		events <- event
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	select {
	case event := <-events:
		if event != provider.EventInitialSession {
			t.Fatalf("first event = %q, want INITIAL_SESSION", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("initial session event never fired")
	}
}

func TestOnAuthStateChangeFanOut(t *testing.T) {
	p := newTestProvider(t, nil)
	ctx := context.Background()

	type record struct {
		event   provider.AuthChangeEvent
		session *provider.Session
	}

	var mu sync.Mutex
	var seen []record
	sub, err := p.OnAuthStateChange(func(event provider.AuthChangeEvent, session *provider.Session) {
		mu.Lock()
		seen = append(seen, record{event, session})
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	// Wait out the asynchronous INITIAL_SESSION before driving changes.
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("initial event never arrived")
		}
		time.Sleep(2 * time.Millisecond)
	}

	if _, err := p.SignUp(ctx, provider.SignUpParams{Email: "user@example.com", Password: "secret-pw"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Fatalf("got %d events, want 3", len(seen))
	}
	if seen[1].event != provider.EventSignedIn || seen[1].session == nil {
		t.Fatalf("second event = %+v, want SIGNED_IN with session", seen[1])
	}
	if seen[2].event != provider.EventSignedOut || seen[2].session != nil {
		t.Fatalf("third event = %+v, want SIGNED_OUT with nil session", seen[2])
	}
}

func TestUnsubscribeStopsCallbacks(t *testing.T) {
	p := newTestProvider(t, nil)
	ctx := context.Background()

	var count sync.Map
	sub, err := p.OnAuthStateChange(func(event provider.AuthChangeEvent, _ *provider.Session) {
		count.Store(event, true)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sub.Unsubscribe()
	sub.Unsubscribe() // must be safe to call twice

	if _, err := p.SignUp(ctx, provider.SignUpParams{Email: "user@example.com", Password: "secret-pw"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, ok := count.Load(provider.EventSignedIn); ok {
		t.Fatal("callback ran after unsubscribe")
	}
}

func TestSeedDoesNotNotifyOrIssueSession(t *testing.T) {
	p := newTestProvider(t, nil)

	fired := make(chan struct{}, 4)
	sub, err := p.OnAuthStateChange(func(event provider.AuthChangeEvent, _ *provider.Session) {
		if event != provider.EventInitialSession {
			fired <- struct{}{}
		}
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	if err := p.Seed("seeded@example.com", "secret-pw", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	session, err := p.GetSession(context.Background())
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if session != nil {
		t.Fatal("seed must not issue a session")
	}
	select {
	case <-fired:
		t.Fatal("seed fired a change notification")
	case <-time.After(50 * time.Millisecond):
	}
}
