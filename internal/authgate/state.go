// Package authgate blocks protected routes until the shared authentication
// state has resolved, then either lets the request through or redirects.
package authgate

import (
	"context"
	"log/slog"
	"sync"
)

// User is the profile of the authenticated caller.
type User struct {
	ID          string
	DisplayName string
	Email       string
}

// State is a snapshot of the authentication resolution. Authenticated and
// User are meaningless while Loading is true; the snapshot transitions
// exactly once per process start from loading to a terminal value.
type State struct {
	Loading       bool
	Authenticated bool
	User          *User
}

// Whoami resolves the current session to a user profile. A failed check
// means "not authenticated", never a fatal error.
type Whoami interface {
	Whoami(ctx context.Context) (User, error)
}

// Provider owns the process-wide auth state. It is initialized once at
// application start and resolves the session with a single whoami call.
type Provider struct {
	whoami Whoami
	logger *slog.Logger

	mu       sync.RWMutex
	state    State
	resolved chan struct{}
	once     sync.Once
}

// NewProvider returns a provider in the loading state.
func NewProvider(whoami Whoami, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		whoami:   whoami,
		logger:   logger,
		state:    State{Loading: true},
		resolved: make(chan struct{}),
	}
}

// Resolve performs the whoami check and flips the state out of loading.
// Safe to call more than once; only the first call resolves.
func (p *Provider) Resolve(ctx context.Context) {
	p.once.Do(func() {
		user, err := p.whoami.Whoami(ctx)
		if err != nil {
			p.logger.Debug("session resolution failed, treating as unauthenticated", "error", err)
			p.set(State{Authenticated: false})
			return
		}
		p.set(State{Authenticated: true, User: &user})
	})
}

// Snapshot returns the current auth state.
func (p *Provider) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Resolved is closed once the state has left loading. Callers that can
// select on it avoid up to one poll tick of latency.
func (p *Provider) Resolved() <-chan struct{} {
	return p.resolved
}

// SetSession records a successful interactive login.
func (p *Provider) SetSession(user User) {
	p.set(State{Authenticated: true, User: &user})
}

// ClearSession records a logout.
func (p *Provider) ClearSession() {
	p.set(State{Authenticated: false})
}

func (p *Provider) set(s State) {
	p.mu.Lock()
	wasLoading := p.state.Loading
	p.state = s
	p.mu.Unlock()
	if wasLoading {
		close(p.resolved)
	}
}
