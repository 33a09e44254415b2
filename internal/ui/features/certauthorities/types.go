// Package certauthorities provides the certificate authority list view.
package certauthorities

import (
	"html/template"

	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/view"
)

// CollectionKey is the logical identity of the CA listing in the query
// cache.
const CollectionKey = "cas"

// TableID is the DOM element SSE patches target.
const TableID = "cas-table"

// Project maps the API envelope to table rows. Pure; a nil payload yields
// an empty row set.
func Project(list api.PaginatedList[api.CA]) []api.CA {
	if list.Items == nil {
		return []api.CA{}
	}
	return list.Items
}

// Columns returns the CA table columns.
func Columns() []view.Column[api.CA] {
	return []view.Column[api.CA]{
		{
			Header:   "Fingerprint",
			Accessor: func(ca api.CA) string { return ca.Fingerprint },
			Render: func(ca api.CA) string {
				return "<code>" + template.HTMLEscapeString(ca.Fingerprint) + "</code>"
			},
		},
		{
			Header: "Certificate",
			Accessor: func(ca api.CA) string {
				return ca.CertPEM
			},
			Render: func(ca api.CA) string {
				return "<details><summary>PEM</summary><pre>" +
					template.HTMLEscapeString(ca.CertPEM) + "</pre></details>"
			},
		},
		{
			Header: "Created",
			Accessor: func(ca api.CA) string {
				return ca.CreatedAt.UTC().Format("2006-01-02 15:04")
			},
		},
	}
}

// EmptyNotice is the guidance shown when no CAs exist.
func EmptyNotice() view.EmptyNotice {
	return view.EmptyNotice{
		Title:        "No certificate authorities",
		Description:  "Generate or import a CA to issue agent certificates.",
		LearnMoreURL: "https://lucid.sh/docs/certificate-authorities",
	}
}
