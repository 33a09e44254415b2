// Package auth provides the login and logout flows.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/authgate"
	"github.com/lucid-sh/console/internal/query"
	"github.com/lucid-sh/console/internal/ui/features/common"
	"github.com/lucid-sh/console/internal/ui/templates"
)

// Handlers provides HTTP handlers for the auth feature.
type Handlers struct {
	client       *api.Client
	provider     *authgate.Provider
	templates    *templates.Templates
	sessionStore sessions.Store
	homePath     string
	loginPath    string
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	client *api.Client,
	provider *authgate.Provider,
	tmpl *templates.Templates,
	sessionStore sessions.Store,
	loginPath, homePath string,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		client:       client,
		provider:     provider,
		templates:    tmpl,
		sessionStore: sessionStore,
		loginPath:    loginPath,
		homePath:     homePath,
		logger:       logger,
	}
}

// PageData is the login page's template data.
type PageData struct {
	common.Page
	FormError    string
	FormUsername string
}

func (h *Handlers) newPageData(w http.ResponseWriter, r *http.Request) PageData {
	data := PageData{
		Page: common.NewPage("Sign in", h.loginPath, h.provider.Snapshot()),
	}
	data.CSRFToken = common.CSRFToken(w, r, h.sessionStore)
	data.Flash = common.PopFlash(w, r, h.sessionStore)
	return data
}

func (h *Handlers) render(w http.ResponseWriter, data PageData) {
	if err := h.templates.RenderPage(w, "login", data); err != nil {
		h.logger.Error("failed to render login page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// LoginPage renders the sign-in form. The auth gate redirects already
// authenticated visitors away before this handler runs.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.newPageData(w, r))
}

// Login authenticates against the API. A failed login is scoped to the
// form; a successful one updates the shared auth state and redirects home.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData(w, r)

	if !common.CheckCSRF(r, h.sessionStore) {
		w.WriteHeader(http.StatusForbidden)
		data.FormError = "Invalid form token, please retry."
		h.render(w, data)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		data.FormError = "Username and password are required."
		data.FormUsername = username
		h.render(w, data)
		return
	}

	user, err := h.client.Login(r.Context(), username, password)
	if err != nil {
		typed := query.AsTypedError(err)
		h.logger.Debug("login failed", "username", username, "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		data.FormError = typed.Error()
		data.FormUsername = username
		h.render(w, data)
		return
	}

	h.provider.SetSession(authgate.User{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	})
	http.Redirect(w, r, h.homePath, http.StatusSeeOther)
}

// Logout ends the API session and sends the visitor to the login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if !common.CheckCSRF(r, h.sessionStore) {
		http.Redirect(w, r, h.homePath, http.StatusSeeOther)
		return
	}

	if err := h.client.Logout(r.Context()); err != nil {
		h.logger.Debug("logout call failed", "error", err)
	}
	h.provider.ClearSession()
	http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
}
