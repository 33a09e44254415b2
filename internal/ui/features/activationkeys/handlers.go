package activationkeys

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/authgate"
	"github.com/lucid-sh/console/internal/query"
	"github.com/lucid-sh/console/internal/ui/features/common"
	"github.com/lucid-sh/console/internal/ui/templates"
	"github.com/lucid-sh/console/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the activation keys feature.
type Handlers struct {
	client       *api.Client
	cache        *query.Cache
	auth         *authgate.Provider
	templates    *templates.Templates
	sessionStore sessions.Store
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	client *api.Client,
	cache *query.Cache,
	auth *authgate.Provider,
	tmpl *templates.Templates,
	sessionStore sessions.Store,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		client:       client,
		cache:        cache,
		auth:         auth,
		templates:    tmpl,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// PageData is the activation keys page's template data. Created is the
// creation flow's own success state: it is rendered alongside the list and
// never dismissed by list transitions.
type PageData struct {
	common.Page
	TableView       common.TableView
	Created         *CreatedPanel
	FormError       string
	FormKeyID       string
	FormDescription string
}

func (h *Handlers) fetch(ctx context.Context) query.Query[api.PaginatedList[api.ActivationKey]] {
	return query.Fetch(ctx, h.cache, CollectionKey,
		func(ctx context.Context) (api.PaginatedList[api.ActivationKey], error) {
			return h.client.ListActivationKeys(ctx, api.ListParams{})
		})
}

func tableView(q query.Query[api.PaginatedList[api.ActivationKey]], csrfToken string) common.TableView {
	model := view.Build(q, Project, Columns(csrfToken), EmptyNotice())
	return common.TableView{ID: TableID, Table: view.Materialize(model)}
}

func (h *Handlers) newPageData(w http.ResponseWriter, r *http.Request) PageData {
	data := PageData{
		Page: common.NewPage("Activation keys", "/activation-keys", h.auth.Snapshot()),
	}
	data.CSRFToken = common.CSRFToken(w, r, h.sessionStore)
	data.Flash = common.PopFlash(w, r, h.sessionStore)
	return data
}

func (h *Handlers) render(w http.ResponseWriter, data PageData) {
	if err := h.templates.RenderPage(w, "activation_keys", data); err != nil {
		h.logger.Error("failed to render activation keys page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListPage renders the activation key list.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData(w, r)
	data.TableView = tableView(h.fetch(r.Context()), data.CSRFToken)
	h.render(w, data)
}

// Create handles the create form. On success the collection is invalidated
// and the one-time token is rendered; the token is not retrievable
// afterwards. On failure the form error is scoped to the form and the
// cached list is left untouched.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	data := h.newPageData(w, r)

	if !common.CheckCSRF(r, h.sessionStore) {
		w.WriteHeader(http.StatusForbidden)
		data.FormError = "Invalid form token, please retry."
		data.TableView = h.listWithoutRefetch(r.Context(), data.CSRFToken)
		h.render(w, data)
		return
	}

	req := api.CreateActivationKeyRequest{
		KeyID:       strings.TrimSpace(r.PostFormValue("key_id")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
	if req.KeyID == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		data.FormError = "Key ID is required."
		data.FormDescription = req.Description
		data.TableView = h.listWithoutRefetch(r.Context(), data.CSRFToken)
		h.render(w, data)
		return
	}

	created, err := h.client.CreateActivationKey(r.Context(), req)
	if err != nil {
		typed := query.AsTypedError(err)
		h.logger.Debug("activation key creation failed", "key_id", req.KeyID, "error", err)
		w.WriteHeader(http.StatusBadGateway)
		data.FormError = typed.Error()
		data.FormKeyID = req.KeyID
		data.FormDescription = req.Description
		data.TableView = h.listWithoutRefetch(r.Context(), data.CSRFToken)
		h.render(w, data)
		return
	}

	// Success acknowledged: only now is the listing marked stale.
	h.cache.Invalidate(CollectionKey)

	data.Created = &CreatedPanel{KeyID: created.Key.KeyID, Token: created.Token}
	data.TableView = tableView(h.fetch(r.Context()), data.CSRFToken)
	w.WriteHeader(http.StatusCreated)
	h.render(w, data)
}

// Delete removes a key. Success invalidates the listing; failure surfaces
// as a flash without touching the cached collection.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !common.CheckCSRF(r, h.sessionStore) {
		common.AddFlash(w, r, h.sessionStore, "Invalid form token, please retry.")
		http.Redirect(w, r, "/activation-keys", http.StatusSeeOther)
		return
	}

	if err := h.client.DeleteActivationKey(r.Context(), id); err != nil {
		typed := query.AsTypedError(err)
		h.logger.Debug("activation key deletion failed", "id", id, "error", err)
		common.AddFlash(w, r, h.sessionStore, "Failed to delete key: "+typed.Error())
		http.Redirect(w, r, "/activation-keys", http.StatusSeeOther)
		return
	}

	h.cache.Invalidate(CollectionKey)
	common.AddFlash(w, r, h.sessionStore, "Activation key deleted.")
	http.Redirect(w, r, "/activation-keys", http.StatusSeeOther)
}

// listWithoutRefetch renders the list from the cached snapshot when one
// exists, so a failed mutation never disturbs the listing's own state.
func (h *Handlers) listWithoutRefetch(ctx context.Context, csrfToken string) common.TableView {
	if prev, ok := query.Lookup[api.PaginatedList[api.ActivationKey]](h.cache, CollectionKey); ok {
		return tableView(prev, csrfToken)
	}
	return tableView(h.fetch(ctx), csrfToken)
}

// Updates streams table re-renders whenever the key collection is
// invalidated.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	// Mint the token before the SSE stream opens; headers cannot be
	// written afterwards.
	csrfToken := common.CSRFToken(w, r, h.sessionStore)

	sse := datastar.NewSSE(w, r)

	ch := h.cache.Subscribe(CollectionKey)
	defer h.cache.Unsubscribe(CollectionKey, ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			if prev, ok := query.Lookup[api.PaginatedList[api.ActivationKey]](h.cache, CollectionKey); ok {
				if html, err := h.templates.Fragment("table", tableView(query.Refetch(prev), csrfToken)); err == nil {
					_ = sse.PatchElements(html)
				}
			}

			html, err := h.templates.Fragment("table", tableView(h.fetch(r.Context()), csrfToken))
			if err != nil {
				h.logger.Error("failed to render activation keys table", "error", err)
				continue
			}
			if err := sse.PatchElements(html); err != nil {
				return
			}
		}
	}
}
