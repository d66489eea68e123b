package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// Format selects how rendered rows are written.
type Format string

// Output formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted format names.
var Formats = []string{"table", "json", "csv", "markdown"}

// ParseFormat maps a format name to a Format. Empty selects FormatTable.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected one of %s)", s, strings.Join(Formats, ", "))
	}
}

// Write prints rows to w. Table and markdown output print one two-column
// (field, value) block per row; CSV prints one wide table; JSON prints an
// array of rows, each an ordered list of fields.
func Write(w io.Writer, rows []Row, format Format) error {
	switch format {
	case FormatTable, "":
		writeBlocks(w, rows, false)
		return nil
	case FormatMarkdown:
		writeBlocks(w, rows, true)
		return nil
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeBlocks(w io.Writer, rows []Row, markdown bool) {
	style := table.StyleDefault
	if isTerminal(w) {
		style = table.StyleLight
	}

	for i, row := range rows {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(style)
		t.SetTitle("Row %d", i+1)
		t.AppendHeader(table.Row{"Field", "Value"})
		for _, f := range row {
			t.AppendRow(table.Row{f.Name, f.Value})
		}

		if markdown {
			t.RenderMarkdown()
		} else {
			t.Render()
		}
	}
}

func writeCSV(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(rows[0]))
	for i, f := range rows[0] {
		header[i] = f.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		values := make([]string, len(row))
		for i, f := range row {
			values[i] = f.Value
		}
		if err := cw.Write(values); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
