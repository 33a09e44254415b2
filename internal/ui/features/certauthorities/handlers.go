package certauthorities

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/authgate"
	"github.com/lucid-sh/console/internal/query"
	"github.com/lucid-sh/console/internal/ui/features/common"
	"github.com/lucid-sh/console/internal/ui/templates"
	"github.com/lucid-sh/console/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the CA feature.
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

// PageData is the CA page's template data.
type PageData struct {
	common.Page
	TableView common.TableView
}

func (h *Handlers) fetch(ctx context.Context) query.Query[api.PaginatedList[api.CA]] {
	return query.Fetch(ctx, h.cache, CollectionKey,
		func(ctx context.Context) (api.PaginatedList[api.CA], error) {
			return h.client.ListCAs(ctx, api.ListParams{})
		})
}

func tableView(q query.Query[api.PaginatedList[api.CA]]) common.TableView {
	model := view.Build(q, Project, Columns(), EmptyNotice())
	return common.TableView{ID: TableID, Table: view.Materialize(model)}
}

// ListPage renders the CA list.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		Page:      common.NewPage("Certificate authorities", "/cas", h.auth.Snapshot()),
		TableView: tableView(h.fetch(r.Context())),
	}
	data.CSRFToken = common.CSRFToken(w, r, h.sessionStore)
	data.Flash = common.PopFlash(w, r, h.sessionStore)

	if err := h.templates.RenderPage(w, "cas", data); err != nil {
		h.logger.Error("failed to render CA page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates streams table re-renders whenever the CA collection is
// invalidated.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch := h.cache.Subscribe(CollectionKey)
	defer h.cache.Unsubscribe(CollectionKey, ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			html, err := h.templates.Fragment("table", tableView(h.fetch(r.Context())))
			if err != nil {
				h.logger.Error("failed to render CA table", "error", err)
				continue
			}
			if err := sse.PatchElements(html); err != nil {
				return
			}
		}
	}
}
