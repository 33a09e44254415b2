package auth

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/authgate"
	"github.com/lucid-sh/console/internal/ui/templates"
)

// SetupRoutes registers the auth feature routes.
func SetupRoutes(
	router chi.Router,
	client *api.Client,
	provider *authgate.Provider,
	tmpl *templates.Templates,
	sessionStore sessions.Store,
	loginPath, homePath string,
	logger *slog.Logger,
) {
	handlers := NewHandlers(client, provider, tmpl, sessionStore, loginPath, homePath, logger)

	router.Get(loginPath, handlers.LoginPage)
	router.Post(loginPath, handlers.Login)
	router.Post("/auth/logout", handlers.Logout)
}
