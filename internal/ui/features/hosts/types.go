// Package hosts provides the host list view.
package hosts

import (
	"strings"

	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/view"
)

// CollectionKey is the logical identity of the host listing in the query
// cache. Every filter or variant of the listing shares it.
const CollectionKey = "hosts"

// TableID is the DOM element SSE patches target.
const TableID = "hosts-table"

// Project maps the API envelope to table rows. Pure; a nil payload yields
// an empty row set.
func Project(list api.PaginatedList[api.Host]) []api.Host {
	if list.Items == nil {
		return []api.Host{}
	}
	return list.Items
}

// Columns returns the host table columns.
func Columns() []view.Column[api.Host] {
	return []view.Column[api.Host]{
		{
			Header:   "Hostname",
			Accessor: func(h api.Host) string { return h.Hostname },
		},
		{
			Header: "OS",
			Accessor: func(h api.Host) string {
				return strings.TrimSpace(h.OSName + " " + h.OSVersion)
			},
		},
		{
			Header:   "Architecture",
			Accessor: func(h api.Host) string { return h.Architecture },
		},
		{
			Header: "Interfaces",
			Accessor: func(h api.Host) string {
				if len(h.Ifaces) == 0 {
					return ""
				}
				names := make([]string, len(h.Ifaces))
				for i, iface := range h.Ifaces {
					names[i] = iface.Iface
				}
				return strings.Join(names, ", ")
			},
		},
		{
			Header: "Last seen",
			Accessor: func(h api.Host) string {
				if h.LastSeenAt.IsZero() {
					return "never"
				}
				return h.LastSeenAt.UTC().Format("2006-01-02 15:04")
			},
		},
	}
}

// EmptyNotice is the guidance shown when no hosts are registered.
func EmptyNotice() view.EmptyNotice {
	return view.EmptyNotice{
		Title:       "No hosts yet",
		Description: "Hosts appear here once an agent registers with an activation key.",
		Actions: []view.Action{
			{Label: "Create an activation key", URL: "/activation-keys"},
		},
		LearnMoreURL: "https://lucid.sh/docs/agents",
	}
}
