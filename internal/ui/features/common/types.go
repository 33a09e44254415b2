// Package common holds types and helpers shared by all console features.
package common

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/lucid-sh/console/internal/authgate"
	"github.com/lucid-sh/console/internal/view"
)

// Page carries the fields the base layout needs. Feature page data embeds
// it and adds its own.
type Page struct {
	Title       string
	CurrentPath string
	UserName    string
	CSRFToken   string
	Flash       []string
}

// NewPage builds the layout fields from the resolved auth state.
func NewPage(title, path string, auth authgate.State) Page {
	p := Page{Title: title, CurrentPath: path}
	if auth.User != nil {
		p.UserName = auth.User.DisplayName
	}
	return p
}

// TableView pairs a materialized table with the element ID that SSE
// patches target.
type TableView struct {
	ID    string
	Table view.TableData
}

// SessionName is the console's own cookie session, used for flash messages
// and form CSRF tokens.
const SessionName = "lucid-console"

// PopFlash drains flash messages from the session.
func PopFlash(w http.ResponseWriter, r *http.Request, store sessions.Store) []string {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save(r, w)
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}

// AddFlash queues a flash message for the next rendered page.
func AddFlash(w http.ResponseWriter, r *http.Request, store sessions.Store, msg string) {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return
	}
	session.AddFlash(msg)
	_ = session.Save(r, w)
}
