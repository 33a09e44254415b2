// Package view derives table render decisions from query snapshots.
//
// The state selection is a pure function of (status, refetching, row count)
// and is independent of any rendering backend; the HTML and text backends
// both consume the materialized TableData produced here.
package view

import (
	"github.com/lucid-sh/console/internal/query"
)

// State is the render decision for a collection view. Exactly one state
// applies per snapshot; earlier states win.
type State int

const (
	// StateLoading renders placeholder rows. It applies while the read is
	// pending or refetching, even when stale data exists, so content about
	// to be replaced is never shown.
	StateLoading State = iota
	// StateError renders a single full-width notice with the read's error.
	StateError
	// StateEmpty renders guidance for a successful read with zero rows.
	StateEmpty
	// StatePopulated renders one row per data row.
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// PlaceholderRows is the fixed number of skeleton rows shown while loading.
const PlaceholderRows = 10

// Decide selects the render state. Priority order: loading, error, empty,
// populated; first match wins.
func Decide(status query.Status, refetching bool, rowCount int) State {
	switch {
	case status == query.StatusPending || refetching:
		return StateLoading
	case status == query.StatusError:
		return StateError
	case rowCount == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// Column describes one table column: a header label, an accessor producing
// the display value for a row, and an optional renderer that replaces the
// plain-text cell with custom markup.
type Column[R any] struct {
	Header   string
	Accessor func(R) string
	// Render, when set, receives the row and returns trusted HTML for the
	// cell. Text backends ignore it and fall back to the accessor.
	Render func(R) string
}

// Action is a call-to-action shown in the empty state.
type Action struct {
	Label string
	URL   string
}

// EmptyNotice configures the empty-state guidance.
type EmptyNotice struct {
	Title        string
	Description  string
	Actions      []Action
	LearnMoreURL string
}

// Model is the full render decision for one collection view.
type Model[R any] struct {
	State   State
	Columns []Column[R]
	Rows    []R
	Err     *query.TypedError
	Empty   EmptyNotice
}

// Build projects the query payload into rows and decides the render state.
// The projection is caller-supplied so the table stays decoupled from any
// one endpoint's envelope shape; it must be pure.
func Build[P, R any](q query.Query[P], project func(P) []R, cols []Column[R], empty EmptyNotice) Model[R] {
	var rows []R
	if q.Status == query.StatusSuccess && project != nil {
		rows = project(q.Data)
	}

	return Model[R]{
		State:   Decide(q.Status, q.Refetching, len(rows)),
		Columns: cols,
		Rows:    rows,
		Err:     q.Err,
		Empty:   empty,
	}
}
