package authgate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a hand-rolled state owner for gate tests.
type fakeSource struct {
	mu       sync.RWMutex
	state    State
	resolved chan struct{}
}

func newFakeSource(loading bool) *fakeSource {
	return &fakeSource{
		state:    State{Loading: loading},
		resolved: make(chan struct{}),
	}
}

func (f *fakeSource) Snapshot() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

func (f *fakeSource) Resolved() <-chan struct{} { return f.resolved }

func (f *fakeSource) resolve(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
	close(f.resolved)
}

func newTestGate(source Source) *Gate {
	return New(source, "/auth/login", "/", 5*time.Millisecond, nil)
}

func TestWaitReturnsImmediatelyWhenResolved(t *testing.T) {
	source := newFakeSource(false)
	gate := newTestGate(source)

	start := time.Now()
	state, err := gate.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Loading)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWaitBlocksUntilResolution(t *testing.T) {
	source := newFakeSource(true)
	gate := newTestGate(source)

	go func() {
		time.Sleep(20 * time.Millisecond)
		source.resolve(State{Authenticated: true, User: &User{DisplayName: "Dana"}})
	}()

	state, err := gate.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "Dana", state.User.DisplayName)
}

func TestWaitHonorsContext(t *testing.T) {
	source := newFakeSource(true)
	gate := newTestGate(source)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	state, err := gate.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, state.Loading)
}

func TestDecide(t *testing.T) {
	gate := newTestGate(newFakeSource(false))

	tests := []struct {
		name         string
		target       string
		state        State
		wantRedirect string
		wantOK       bool
	}{
		{"unauthenticated on protected route goes to login", "/hosts", State{}, "/auth/login", true},
		{"unauthenticated on login proceeds", "/auth/login", State{}, "", false},
		{"authenticated on login goes home", "/auth/login", State{Authenticated: true}, "/", true},
		{"authenticated on protected route proceeds", "/hosts", State{Authenticated: true}, "", false},
		{"authenticated at home proceeds", "/", State{Authenticated: true}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, redirect := gate.Decide(tt.target, tt.state)
			assert.Equal(t, tt.wantOK, redirect)
			assert.Equal(t, tt.wantRedirect, target)
		})
	}
}

func TestDecideIsStableAfterRedirect(t *testing.T) {
	// Following the gate's own redirect must terminate in one hop.
	gate := newTestGate(newFakeSource(false))

	for _, state := range []State{{}, {Authenticated: true}} {
		target := "/hosts"
		hops := 0
		for {
			next, redirect := gate.Decide(target, state)
			if !redirect {
				break
			}
			target = next
			hops++
			require.LessOrEqual(t, hops, 1, "gate redirect must not loop")
		}
	}
}

func TestMiddlewareRedirectsUnauthenticated(t *testing.T) {
	source := newFakeSource(false)
	gate := newTestGate(source)

	var served bool
	handler := gate.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		served = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/hosts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	assert.False(t, served, "target route must not render")
}

func TestMiddlewareRedirectsAuthenticatedAwayFromLogin(t *testing.T) {
	source := newFakeSource(true)
	gate := newTestGate(source)
	source.resolve(State{Authenticated: true})

	handler := gate.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestMiddlewareServesResolvedAuthenticated(t *testing.T) {
	source := newFakeSource(true)
	gate := newTestGate(source)

	go func() {
		time.Sleep(10 * time.Millisecond)
		source.resolve(State{Authenticated: true})
	}()

	var served bool
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		served = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/hosts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, served)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewarePendingPageWhenUnresolved(t *testing.T) {
	source := newFakeSource(true)
	gate := newTestGate(source)

	handler := gate.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("target route must not render while auth state is unresolved")
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/hosts", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loading")
}
