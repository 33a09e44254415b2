// Package ui provides the web server for the Lucid console.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/authgate"
	"github.com/lucid-sh/console/internal/config"
	"github.com/lucid-sh/console/internal/query"
	"github.com/lucid-sh/console/internal/ui/router"
	"github.com/lucid-sh/console/internal/ui/templates"
	"golang.org/x/sync/errgroup"
)

// Server is the console web server.
type Server struct {
	cfg          *config.Config
	client       *api.Client
	cache        *query.Cache
	provider     *authgate.Provider
	gate         *authgate.Gate
	sessionStore *sessions.CookieStore
	templates    *templates.Templates
	logger       *slog.Logger
}

// whoamiAdapter converts the API client's user profile into the auth
// gate's user type so the client satisfies authgate.Whoami.
type whoamiAdapter struct {
	client *api.Client
}

func (a whoamiAdapter) Whoami(ctx context.Context) (authgate.User, error) {
	user, err := a.client.Whoami(ctx)
	if err != nil {
		return authgate.User{}, err
	}
	return authgate.User{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}, nil
}

// NewServer wires the console together: API client, query cache, auth
// state provider, gate, and templates.
func NewServer(cfg *config.Config, client *api.Client, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := templates.New()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 7) // 7 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	provider := authgate.NewProvider(whoamiAdapter{client}, logger)
	gate := authgate.New(provider, cfg.LoginPath, cfg.HomePath, cfg.AuthPollInterval, logger)

	return &Server{
		cfg:          cfg,
		client:       client,
		cache:        query.NewCache(logger),
		provider:     provider,
		gate:         gate,
		sessionStore: sessionStore,
		templates:    tmpl,
		logger:       logger,
	}, nil
}

// Cache exposes the query cache, for CLI commands sharing a server wiring.
func (s *Server) Cache() *query.Cache {
	return s.cache
}

// Serve starts the console server and blocks until the context is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("starting console", "addr", fmt.Sprintf("http://localhost:%d", s.cfg.Port), "api", s.cfg.APIURL)

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	router.SetupRoutes(r, router.Deps{
		Client:       s.client,
		Cache:        s.cache,
		Provider:     s.provider,
		Gate:         s.gate,
		Templates:    s.templates,
		SessionStore: s.sessionStore,
		LoginPath:    s.cfg.LoginPath,
		HomePath:     s.cfg.HomePath,
		Logger:       s.logger,
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Resolve the auth state once at startup; the gate holds requests
	// until this completes.
	eg.Go(func() error {
		s.provider.Resolve(egctx)
		return nil
	})

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down console server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
