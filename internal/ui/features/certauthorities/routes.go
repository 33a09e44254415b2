package certauthorities

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/authgate"
	"github.com/lucid-sh/console/internal/query"
	"github.com/lucid-sh/console/internal/ui/templates"
)

// SetupRoutes registers the CA feature routes.
func SetupRoutes(
	router chi.Router,
	client *api.Client,
	cache *query.Cache,
	auth *authgate.Provider,
	tmpl *templates.Templates,
	sessionStore sessions.Store,
	logger *slog.Logger,
) {
	handlers := NewHandlers(client, cache, auth, tmpl, sessionStore, logger)

	router.Get("/cas", handlers.ListPage)
	router.Get("/cas/updates", handlers.Updates)
}
