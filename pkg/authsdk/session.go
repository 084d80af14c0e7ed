package authsdk

import (
	"context"
	"sync"
	"time"
)

// SessionState is the settled-ness of the client session.
type SessionState int

const (
	// StateLoading means identity resolution has not completed yet. Consumers
	// must treat this as "decision pending", never as unauthenticated.
	StateLoading SessionState = iota

	// StateAuthenticated means a user identity has been resolved and verified.
	StateAuthenticated

	// StateUnauthenticated means no valid session exists. There is no
	// distinct error state; verification failures land here.
	StateUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Capabilities is the read-only view the UI consumes.
type Capabilities struct {
	Loading         bool
	IsAuthenticated bool
	IsAdmin         bool
	User            *UserResponse
}

// SessionManager tracks the client session across login, logout, and silent
// refresh. Only the manager writes state; observers subscribe for snapshots.
//
// Resolutions are guarded by a generation counter: every state-changing
// operation bumps the generation, and an in-flight resolution applies its
// result only if no newer operation started in the meantime. A late result
// from a superseded resolution is discarded, never applied.
type SessionManager struct {
	client *Client
	store  TokenStore

	// Now is overridable in tests to pin local expiry checks.
	Now func() time.Time

	mu      sync.Mutex
	state   SessionState
	user    *UserResponse
	gen     uint64
	subs    map[int]func(Capabilities)
	nextSub int
}

// NewSessionManager creates a manager in the loading state. Call Resolve to
// settle it from the stored tokens.
func NewSessionManager(client *Client, store TokenStore) *SessionManager {
	return &SessionManager{
		client: client,
		store:  store,
		Now:    time.Now,
		state:  StateLoading,
		subs:   make(map[int]func(Capabilities)),
	}
}

// State returns the current session state.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Capabilities returns the current capability snapshot.
func (m *SessionManager) Capabilities() Capabilities {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capabilitiesLocked()
}

func (m *SessionManager) capabilitiesLocked() Capabilities {
	caps := Capabilities{
		Loading:         m.state == StateLoading,
		IsAuthenticated: m.state == StateAuthenticated,
		User:            m.user,
	}
	if caps.IsAuthenticated && m.user != nil {
		caps.IsAdmin = m.user.Role == "admin"
	}
	return caps
}

// Subscribe registers fn to receive a capability snapshot on every state
// change. It is invoked immediately with the current snapshot. The returned
// function unsubscribes.
func (m *SessionManager) Subscribe(fn func(Capabilities)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	caps := m.capabilitiesLocked()
	m.mu.Unlock()

	fn(caps)

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Resolve settles the session from the stored tokens. Called once on mount.
// An access token past its embedded expiry with a viable refresh token still
// resolves to authenticated via a silent refresh; only when no refresh path
// remains does the session settle unauthenticated and clear stored tokens.
func (m *SessionManager) Resolve(ctx context.Context) {
	myGen := m.begin()

	tokens, ok, err := m.store.Load()
	if err != nil || !ok {
		m.settle(myGen, StateUnauthenticated, nil, false)
		return
	}

	user, stillValid := m.resolveUser(ctx, tokens)
	if user == nil {
		m.settle(myGen, StateUnauthenticated, nil, !stillValid)
		return
	}
	m.settle(myGen, StateAuthenticated, user, false)
}

// resolveUser turns stored tokens into a verified user, refreshing silently
// when needed. The second return is false when the stored tokens are dead
// and should be cleared.
func (m *SessionManager) resolveUser(ctx context.Context, tokens StoredTokens) (*UserResponse, bool) {
	access := tokens.AccessToken

	// Skip a round trip that is certain to fail with token_expired.
	if access == "" || locallyExpired(access, m.Now()) {
		refreshed, err := m.refresh(ctx, tokens)
		if err != nil {
			return nil, false
		}
		access = refreshed.AccessToken
	}

	user, err := m.client.Me(ctx, access)
	if err == nil {
		return user, true
	}

	// The server saw an expired token despite the local check (clock skew);
	// one silent refresh attempt, then give up.
	if IsTokenExpired(err) {
		refreshed, rerr := m.refresh(ctx, tokens)
		if rerr != nil {
			return nil, false
		}
		user, err = m.client.Me(ctx, refreshed.AccessToken)
		if err == nil {
			return user, true
		}
	}

	return nil, false
}

func (m *SessionManager) refresh(ctx context.Context, tokens StoredTokens) (*TokenResponse, error) {
	if tokens.RefreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	resp, err := m.client.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		return nil, err
	}

	// The server rotated the refresh token; persist the new pair before
	// using it or a crash here would strand the session.
	_ = m.store.Save(StoredTokens{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	return resp, nil
}

// Login authenticates with credentials and settles the session.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	myGen := m.begin()

	tokens, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.settle(myGen, StateUnauthenticated, nil, false)
		return err
	}

	stored := StoredTokens{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
	if err := m.store.Save(stored); err != nil {
		m.settle(myGen, StateUnauthenticated, nil, false)
		return err
	}

	user, err := m.client.Me(ctx, tokens.AccessToken)
	if err != nil {
		m.settle(myGen, StateUnauthenticated, nil, true)
		return err
	}

	m.settle(myGen, StateAuthenticated, user, false)
	return nil
}

// Logout revokes the refresh token, clears stored tokens, and settles the
// session unauthenticated. Revocation failures are not fatal; the local
// session ends regardless.
func (m *SessionManager) Logout(ctx context.Context) error {
	myGen := m.begin()

	tokens, ok, _ := m.store.Load()
	if ok && tokens.RefreshToken != "" {
		_ = m.client.Logout(ctx, tokens.RefreshToken)
	}
	err := m.store.Clear()

	m.settle(myGen, StateUnauthenticated, nil, false)
	return err
}

// begin starts a new state-changing operation: it bumps the generation so
// any in-flight resolution is superseded, and moves the state to loading.
func (m *SessionManager) begin() uint64 {
	m.mu.Lock()
	m.gen++
	myGen := m.gen
	m.state = StateLoading
	m.user = nil
	caps := m.capabilitiesLocked()
	subs := m.snapshotSubsLocked()
	m.mu.Unlock()

	notify(subs, caps)
	return myGen
}

// settle applies the outcome of the operation identified by myGen. A stale
// generation means a newer operation took over; the result is discarded.
func (m *SessionManager) settle(myGen uint64, state SessionState, user *UserResponse, clearTokens bool) {
	m.mu.Lock()
	if m.gen != myGen {
		m.mu.Unlock()
		return
	}
	m.state = state
	m.user = user
	caps := m.capabilitiesLocked()
	subs := m.snapshotSubsLocked()
	m.mu.Unlock()

	if clearTokens {
		_ = m.store.Clear()
	}
	notify(subs, caps)
}

func (m *SessionManager) snapshotSubsLocked() []func(Capabilities) {
	subs := make([]func(Capabilities), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Capabilities), caps Capabilities) {
	for _, fn := range subs {
		fn(caps)
	}
}
