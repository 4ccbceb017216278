// Package cliutil provides output helpers shared by the asyncdocs commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// ErrOutput receives write failures reported by Writef and WriteTable.
var ErrOutput io.Writer = os.Stderr

// Writef writes formatted output to w. A failed write is reported to
// ErrOutput instead of being returned.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(ErrOutput, "write error: %v\n", err)
	}
}

// WriteTable writes rows under headers with space-padded columns.
// When plain is set the header is omitted and cells are tab separated.
// Nothing is written for an empty rows slice.
func WriteTable(w io.Writer, headers []string, rows [][]string, plain bool) {
	if len(rows) == 0 {
		return
	}
	if plain {
		for _, row := range rows {
			for i, cell := range row {
				if i > 0 {
					Writef(w, "\t")
				}
				Writef(w, "%s", cell)
			}
			Writef(w, "\n")
		}
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], len(cell))
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				Writef(w, "  ")
			}
			width := 0
			if i < len(widths) {
				width = widths[i]
			}
			Writef(w, "%-*s", width, cell)
		}
		Writef(w, "\n")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
}
