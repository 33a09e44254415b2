// Package router sets up HTTP routes for the console server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/authgate"
	"github.com/lucid-sh/console/internal/query"
	activationkeysFeature "github.com/lucid-sh/console/internal/ui/features/activationkeys"
	authFeature "github.com/lucid-sh/console/internal/ui/features/auth"
	certauthoritiesFeature "github.com/lucid-sh/console/internal/ui/features/certauthorities"
	hostsFeature "github.com/lucid-sh/console/internal/ui/features/hosts"
	"github.com/lucid-sh/console/internal/ui/templates"
)

// Deps carries everything the feature routes need.
type Deps struct {
	Client       *api.Client
	Cache        *query.Cache
	Provider     *authgate.Provider
	Gate         *authgate.Gate
	Templates    *templates.Templates
	SessionStore sessions.Store
	LoginPath    string
	HomePath     string
	Logger       *slog.Logger
}

// SetupRoutes configures all routes for the console. The auth gate wraps
// the whole tree: it holds every request until the auth state resolves and
// applies the login/home redirect rules before any feature handler runs.
func SetupRoutes(router chi.Router, d Deps) {
	router.Use(d.Gate.Middleware)

	authFeature.SetupRoutes(router, d.Client, d.Provider, d.Templates, d.SessionStore, d.LoginPath, d.HomePath, d.Logger)
	hostsFeature.SetupRoutes(router, d.Client, d.Cache, d.Provider, d.Templates, d.SessionStore, d.Logger)
	activationkeysFeature.SetupRoutes(router, d.Client, d.Cache, d.Provider, d.Templates, d.SessionStore, d.Logger)
	certauthoritiesFeature.SetupRoutes(router, d.Client, d.Cache, d.Provider, d.Templates, d.SessionStore, d.Logger)

	router.Get(d.HomePath, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hosts", http.StatusSeeOther)
	})
}
