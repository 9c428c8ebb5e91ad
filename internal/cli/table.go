package cli

import (
	"fmt"
	"io"
)

// printTable renders a left-aligned, tab-separated table. A nil footer is
// skipped.
func printTable(w io.Writer, headers []string, rows [][]string, footers []string) {
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		for i, cell := range cells {
			fmt.Fprintf(w, "%-*s\t", colWidths[i], cell)
		}
		fmt.Fprintln(w)
	}

	printRow(headers)
	for _, row := range rows {
		printRow(row)
	}
	if footers != nil {
		printRow(footers)
	}
}
