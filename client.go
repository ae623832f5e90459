package authcore

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mobilisk/authcore/provider"
)

// Client defines a public type used by authcore APIs.
//
// Client is the auth session state machine: it owns the {user, session,
// loading} triple, exposes sign-in/sign-up/sign-out to the UI, and applies
// asynchronous session-change notifications from the identity provider.
// All mutation flows through the reducer under a single mutex, so no
// partial update is ever observable.
type Client struct {
	config   Config
	provider provider.Provider
	audit    *auditDispatcher
	metrics  *Metrics

	mu       sync.Mutex
	state    AuthState
	watchers []chan AuthState

	// mounted is the lifetime/cancellation flag: async results arriving
	// after Close are discarded instead of mutating a torn-down client.
	mounted atomic.Bool
	started atomic.Bool
	sub     *provider.Subscription

	closeOnce sync.Once
}

// Start begins session resolution: it subscribes to the provider's
// session-change stream, then launches the one-shot initial session fetch.
// The two sources race and the last write wins; the provider serializes its
// own notifications. Start must be called once.
func (c *Client) Start(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}
	if !c.mounted.Load() {
		return ErrClientClosed
	}
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	sub, err := c.provider.OnAuthStateChange(func(event provider.AuthChangeEvent, session *provider.Session) {
		if !c.mounted.Load() {
			return
		}
		c.applySession(session)
		c.metricInc(MetricAuthStateChange)
		c.emitAudit(context.Background(), auditEventAuthStateChange, true, sessionUserID(session), sessionEmail(session), nil, func() map[string]string {
			return map[string]string{
				"event": string(event),
			}
		})
	})
	if err != nil {
		c.started.Store(false)
		return err
	}
	c.sub = sub

	go c.fetchInitialSession(ctx)

	return nil
}

func (c *Client) fetchInitialSession(ctx context.Context) {
	session, err := c.provider.GetSession(ctx)
	if !c.mounted.Load() {
		return
	}
	if err != nil {
		log.Print("authcore: initial session fetch failed")
		c.metricInc(MetricInitialFetchFailure)
		c.emitAudit(ctx, auditEventInitialFetchFailure, false, "", "", err, nil)
		// Never leave the UI stuck loading because of a startup failure.
		c.dispatch(setLoading(false))
		return
	}

	c.applySession(session)
	if session != nil {
		c.metricInc(MetricSessionRestored)
		c.emitAudit(ctx, auditEventSessionRestored, true, sessionUserID(session), sessionEmail(session), nil, nil)
	}
}

// applySession stores the session, derives the user from it, and clears
// loading, in one atomic batch. Session and user are always set or cleared
// together.
func (c *Client) applySession(session *provider.Session) {
	var user *provider.User
	if session != nil {
		user = session.User
	}
	c.dispatch(
		setSession(session),
		setUser(user),
		setLoading(false),
	)
}

// dispatch applies a batch of actions under one mutex hold and notifies
// watchers once with the settled state.
func (c *Client) dispatch(actions ...authAction) {
	c.mu.Lock()
	next := c.state
	for _, action := range actions {
		next = reduce(next, action)
	}
	c.state = next
	watchers := c.watchers
	c.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- next:
		default:
			c.metricInc(MetricWatcherDropped)
		}
	}
}

// State returns a snapshot of the current auth state.
func (c *Client) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Watch registers a state observer. Every settled state is sent to the
// returned channel; slow consumers miss intermediate states rather than
// block the state machine. The channel delivers nothing after Close.
func (c *Client) Watch() <-chan AuthState {
	ch := make(chan AuthState, 8)

	c.mu.Lock()
	c.watchers = append(c.watchers, ch)
	c.mu.Unlock()

	return ch
}

// SignIn authenticates with email and password. On provider failure it
// returns a [*ProviderError] carrying the redacted message; local state is
// not mutated here — the session arrives through the change-notification
// stream. On success it returns nil.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	if c == nil {
		return ErrClientNotReady
	}
	if c.metrics.LatencyEnabled() {
		start := time.Now()
		defer c.metrics.Observe(MetricSignInLatency, time.Since(start))
	}

	email = SanitizeInput(email)

	_, err := c.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		c.metricInc(MetricSignInFailure)
		c.emitAudit(ctx, auditEventSignInFailure, false, "", email, err, nil)
		return newProviderError(err)
	}

	c.metricInc(MetricSignInSuccess)
	c.emitAudit(ctx, auditEventSignInSuccess, true, "", email, nil, nil)
	return nil
}

// SignUp registers a new account. fullName, when non-empty, is attached as
// full_name profile metadata. Error contract matches [Client.SignIn].
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) error {
	if c == nil {
		return ErrClientNotReady
	}

	email = SanitizeInput(email)
	fullName = SanitizeInput(fullName)

	params := provider.SignUpParams{
		Email:    email,
		Password: password,
	}
	if fullName != "" {
		params.Data = map[string]any{
			"full_name": fullName,
		}
	}

	_, err := c.provider.SignUp(ctx, params)
	if err != nil {
		c.metricInc(MetricSignUpFailure)
		c.emitAudit(ctx, auditEventSignUpFailure, false, "", email, err, nil)
		return newProviderError(err)
	}

	c.metricInc(MetricSignUpSuccess)
	c.emitAudit(ctx, auditEventSignUpSuccess, true, "", email, nil, nil)
	return nil
}

// SignOut ends the current session. Loading is raised synchronously so the
// UI freezes immediately, local state is cleared unconditionally — even
// when the provider call fails — and a provider failure is then propagated
// to the caller unredacted for UI-level reporting.
func (c *Client) SignOut(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}

	userID := sessionUserID(c.State().Session)

	c.dispatch(setLoading(true))

	err := c.provider.SignOut(ctx)
	c.dispatch(signOutReset())

	if err != nil {
		log.Print("authcore: provider sign-out failed, local state cleared")
		c.metricInc(MetricSignOutForcedReset)
		c.emitAudit(ctx, auditEventSignOutForcedReset, false, userID, "", err, nil)
		return err
	}

	c.metricInc(MetricSignOutSuccess)
	c.emitAudit(ctx, auditEventSignOutSuccess, true, userID, "", nil, nil)
	return nil
}

// Close tears the client down: the mounted flag drops first so any in-flight
// async result is discarded, then the provider subscription is released and
// the audit dispatcher drained. Close is idempotent.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		c.mounted.Store(false)
		if c.sub != nil && c.sub.Unsubscribe != nil {
			c.sub.Unsubscribe()
		}
		if c.audit != nil {
			c.audit.Close()
		}
	})
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

func sessionUserID(session *provider.Session) string {
	if session == nil || session.User == nil {
		return ""
	}
	return session.User.ID
}

func sessionEmail(session *provider.Session) string {
	if session == nil || session.User == nil {
		return ""
	}
	return session.User.Email
}
