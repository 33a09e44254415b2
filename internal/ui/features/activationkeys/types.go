// Package activationkeys provides the activation key list and its create
// and delete flows.
package activationkeys

import (
	"html/template"

	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/view"
)

// CollectionKey is the logical identity of the activation key listing in
// the query cache.
const CollectionKey = "activation-keys"

// TableID is the DOM element SSE patches target.
const TableID = "activation-keys-table"

// Project maps the API envelope to table rows. Pure; a nil payload yields
// an empty row set.
func Project(list api.PaginatedList[api.ActivationKey]) []api.ActivationKey {
	if list.Items == nil {
		return []api.ActivationKey{}
	}
	return list.Items
}

// DataColumns returns the activation key data columns, without the delete
// action cell. This is the set for backends that cannot submit forms.
func DataColumns() []view.Column[api.ActivationKey] {
	return []view.Column[api.ActivationKey]{
		{
			Header:   "Key ID",
			Accessor: func(k api.ActivationKey) string { return k.KeyID },
		},
		{
			Header:   "Description",
			Accessor: func(k api.ActivationKey) string { return k.Description },
		},
		{
			Header: "Status",
			Accessor: func(k api.ActivationKey) string {
				if k.Used {
					return "used"
				}
				return "unused"
			},
			Render: func(k api.ActivationKey) string {
				if k.Used {
					return `<span class="badge used">used</span>`
				}
				return `<span class="badge">unused</span>`
			},
		},
		{
			Header: "Created",
			Accessor: func(k api.ActivationKey) string {
				return k.CreatedAt.UTC().Format("2006-01-02 15:04")
			},
		},
	}
}

// Columns returns the web table columns: the data columns plus a delete
// action cell. The action form needs the session's CSRF token, so columns
// are built per request.
func Columns(csrfToken string) []view.Column[api.ActivationKey] {
	return append(DataColumns(), view.Column[api.ActivationKey]{
		Header:   "",
		Accessor: func(k api.ActivationKey) string { return "" },
		Render: func(k api.ActivationKey) string {
			form := `<form class="inline" method="post" action="/activation-keys/` +
				template.URLQueryEscaper(k.ID) + `/delete">` +
				`<input type="hidden" name="csrf_token" value="` + template.HTMLEscapeString(csrfToken) + `">` +
				`<button type="submit">Delete</button></form>`
			return form
		},
	})
}

// EmptyNotice is the guidance shown when no keys exist.
func EmptyNotice() view.EmptyNotice {
	return view.EmptyNotice{
		Title:       "No activation keys",
		Description: "Create a key to let a host agent register with the fleet.",
		Actions: []view.Action{
			{Label: "Create activation key", URL: "/activation-keys"},
		},
		LearnMoreURL: "https://lucid.sh/docs/activation-keys",
	}
}

// CreatedPanel carries the one-time token shown after a successful create.
// The token exists only in this render; it is never cached or refetchable.
type CreatedPanel struct {
	KeyID string
	Token string
}
