package authgate

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultPollInterval bounds the worst-case latency added by the gate to
// one tick.
const DefaultPollInterval = 100 * time.Millisecond

// Source exposes the shared auth state to the gate. The gate polls the
// snapshot rather than subscribing because it runs in the routing layer,
// which cannot observe the state owner directly; Resolved lets it cut the
// first tick short when the owner supports it.
type Source interface {
	Snapshot() State
	Resolved() <-chan struct{}
}

// Gate guards route entry on the resolved auth state.
type Gate struct {
	source    Source
	interval  time.Duration
	loginPath string
	homePath  string
	logger    *slog.Logger
}

// New creates a gate over the given state source. A zero interval falls
// back to DefaultPollInterval.
func New(source Source, loginPath, homePath string, interval time.Duration, logger *slog.Logger) *Gate {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		source:    source,
		interval:  interval,
		loginPath: loginPath,
		homePath:  homePath,
		logger:    logger,
	}
}

// Wait blocks until the auth state has resolved, checking the snapshot on a
// fixed interval. It returns the terminal state, or the current snapshot
// and the context error if the caller gave up first.
func (g *Gate) Wait(ctx context.Context) (State, error) {
	if s := g.source.Snapshot(); !s.Loading {
		return s, nil
	}

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return g.source.Snapshot(), ctx.Err()
		case <-g.source.Resolved():
			return g.source.Snapshot(), nil
		case <-ticker.C:
			if s := g.source.Snapshot(); !s.Loading {
				return s, nil
			}
		}
	}
}

// Decide evaluates the redirect rules for a resolved state against the
// target path. It returns the redirect target and true, or "" and false to
// proceed. Re-evaluating after a redirect is stable: the login and home
// targets are mutually exclusive, so no loop is possible.
func (g *Gate) Decide(target string, s State) (string, bool) {
	switch {
	case !s.Authenticated && target != g.loginPath:
		return g.loginPath, true
	case s.Authenticated && target == g.loginPath:
		return g.homePath, true
	default:
		return "", false
	}
}

// Middleware wires the gate in front of an HTTP route tree. While the state
// is unresolved it never renders the target route; if the request context
// expires first, a minimal route-agnostic pending page is served instead.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, err := g.Wait(r.Context())
		if err != nil {
			g.logger.Debug("auth resolution interrupted", "path", r.URL.Path, "error", err)
			writePending(w)
			return
		}

		if target, redirect := g.Decide(r.URL.Path, state); redirect {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writePending(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("<!doctype html><title>Loading</title><p>Loading…</p>"))
}
