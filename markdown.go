package tabjson

import (
	"fmt"
	"io"
	"strings"
)

func writeReportMarkdown(w io.Writer, rows [][]string) error {
	escaped := make([][]string, len(rows))
	for i, row := range rows {
		escaped[i] = make([]string, len(row))
		for j, cell := range row {
			escaped[i][j] = strings.ReplaceAll(cell, "|", `\|`)
		}
	}

	// Minimum width 3 leaves room for alignment markers.
	widths := computeWidths(reportHeader, escaped)
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	if err := writeMarkdownRow(w, reportHeader, widths); err != nil {
		return err
	}

	sep := make([]string, len(widths))
	for i, width := range widths {
		if reportAligns[i] == alignRight {
			sep[i] = strings.Repeat("-", width-1) + ":"
		} else {
			sep[i] = strings.Repeat("-", width)
		}
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}

	for _, row := range escaped {
		if err := writeMarkdownRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = alignCell(cell, width, reportAligns[i])
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}
