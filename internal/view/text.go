package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderText writes the table to a terminal. All four states go through the
// same decision as the HTML backend; only the presentation differs.
func RenderText(w io.Writer, data TableData) error {
	switch data.State {
	case StateError:
		_, err := fmt.Fprintf(w, "error: %s\n", data.ErrorNotice())
		return err

	case StateEmpty:
		if _, err := fmt.Fprintln(w, data.Empty.Title); err != nil {
			return err
		}
		if data.Empty.Description != "" {
			if _, err := fmt.Fprintln(w, data.Empty.Description); err != nil {
				return err
			}
		}
		for _, action := range data.Empty.Actions {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", action.Label, action.URL); err != nil {
				return err
			}
		}
		if data.Empty.LearnMoreURL != "" {
			if _, err := fmt.Fprintf(w, "  Learn more: %s\n", data.Empty.LearnMoreURL); err != nil {
				return err
			}
		}
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(data.Headers))
	for i, h := range data.Headers {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	if data.State == StateLoading {
		for i := 0; i < data.Placeholder; i++ {
			row := make(table.Row, len(data.Headers))
			for j := range row {
				row[j] = strings.Repeat(".", 3)
			}
			t.AppendRow(row)
		}
	} else {
		for _, cells := range data.Rows {
			row := make(table.Row, len(cells))
			for i, cell := range cells {
				row[i] = cell.Text
			}
			t.AppendRow(row)
		}
	}

	t.Render()
	return nil
}
