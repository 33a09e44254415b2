package view

import "html/template"

// Cell is one rendered table cell. Text holds the accessor output; HTML is
// set only when the column carries a custom renderer.
type Cell struct {
	Text string
	HTML template.HTML
}

// TableData is the backend-neutral materialization of a Model: headers and
// cells are fully computed, so template code and terminal renderers contain
// no per-column logic.
type TableData struct {
	State        State
	Headers      []string
	Rows         [][]Cell
	Placeholder  int
	ErrorMessage string
	ErrorCode    string
	Empty        EmptyNotice
}

// Materialize computes every cell of the model. A nil accessor yields an
// empty cell; accessors are trusted not to panic on missing data because
// they operate on typed rows.
func Materialize[R any](m Model[R]) TableData {
	data := TableData{
		State:   m.State,
		Headers: make([]string, len(m.Columns)),
		Empty:   m.Empty,
	}
	for i, col := range m.Columns {
		data.Headers[i] = col.Header
	}

	switch m.State {
	case StateLoading:
		data.Placeholder = PlaceholderRows
		data.Rows = make([][]Cell, PlaceholderRows)
		for i := range data.Rows {
			data.Rows[i] = make([]Cell, len(m.Columns))
		}
	case StateError:
		if m.Err != nil {
			data.ErrorMessage = m.Err.Message
			data.ErrorCode = m.Err.Code
		}
	case StatePopulated:
		data.Rows = make([][]Cell, 0, len(m.Rows))
		for _, row := range m.Rows {
			cells := make([]Cell, len(m.Columns))
			for i, col := range m.Columns {
				if col.Accessor != nil {
					cells[i].Text = col.Accessor(row)
				}
				if col.Render != nil {
					cells[i].HTML = template.HTML(col.Render(row))
				}
			}
			data.Rows = append(data.Rows, cells)
		}
	}

	return data
}

// State predicates for template code, which cannot compare State values
// directly.

func (d TableData) IsLoading() bool   { return d.State == StateLoading }
func (d TableData) IsError() bool     { return d.State == StateError }
func (d TableData) IsEmpty() bool     { return d.State == StateEmpty }
func (d TableData) IsPopulated() bool { return d.State == StatePopulated }

// ErrorNotice formats the error line shown in the error state,
// "message (code)" when a code is present.
func (d TableData) ErrorNotice() string {
	if d.ErrorCode != "" {
		return d.ErrorMessage + " (" + d.ErrorCode + ")"
	}
	return d.ErrorMessage
}
