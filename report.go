package tabjson

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ReportStyle selects how [WriteReport] lays out a run summary.
type ReportStyle string

const (
	ReportTable    ReportStyle = "table"
	ReportMarkdown ReportStyle = "markdown"
	ReportCSV      ReportStyle = "csv"
	ReportNone     ReportStyle = "none"
)

var reportStyles = []ReportStyle{ReportTable, ReportMarkdown, ReportCSV, ReportNone}

// ParseReportStyle parses a report style name.
func ParseReportStyle(s string) (ReportStyle, error) {
	for _, st := range reportStyles {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedReport, s)
}

var reportHeader = []string{"Table", "Valid", "Rows", "Reason"}

// Reason column width before truncation with "...".
const maxReasonWidth = 60

// WriteReport writes one line per result: table name, validity, row count,
// and the reason an invalid table was skipped.
func WriteReport(w io.Writer, style ReportStyle, results []Result) error {
	rows := make([][]string, len(results))
	for i, res := range results {
		rows[i] = reportRow(res)
	}
	switch style {
	case ReportTable:
		return writeReportTable(w, rows)
	case ReportMarkdown:
		return writeReportMarkdown(w, rows)
	case ReportCSV:
		return writeReportCSV(w, rows)
	case ReportNone:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedReport, style)
	}
}

func reportRow(res Result) []string {
	valid := "no"
	if res.Valid {
		valid = "yes"
	}
	reason := ""
	if res.Reason != nil {
		reason = res.Reason.Error()
	}
	return []string{res.Name, valid, strconv.Itoa(res.Rows), reason}
}

// Per-column alignment of the report; the row count is right aligned.
var reportAligns = []alignment{alignLeft, alignLeft, alignRight, alignLeft}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var roundedBorder = borderChars{
	topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
	horizontal: "─", vertical: "│",
	topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
	cross: "┼",
}

func writeReportTable(w io.Writer, rows [][]string) error {
	widths := computeWidths(reportHeader, rows)
	if widths[3] > maxReasonWidth {
		widths[3] = maxReasonWidth
	}
	bc := roundedBorder
	if err := drawHLine(w, widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight); err != nil {
		return err
	}
	if err := drawRow(w, reportHeader, widths, bc.vertical); err != nil {
		return err
	}
	if err := drawHLine(w, widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee); err != nil {
		return err
	}
	for _, row := range rows {
		if err := drawRow(w, row, widths, bc.vertical); err != nil {
			return err
		}
	}
	return drawHLine(w, widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
}

func computeWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func drawHLine(w io.Writer, widths []int, left, fill, mid, right string) error {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func drawRow(w io.Writer, cells []string, widths []int, vert string) error {
	var sb strings.Builder
	sb.WriteString(vert)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(formatCell(cell, width, reportAligns[i]))
		sb.WriteString(" ")
		if i < len(widths)-1 {
			sb.WriteString(vert)
		}
	}
	sb.WriteString(vert)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func formatCell(s string, width int, align alignment) string {
	if width > 0 && runewidth.StringWidth(s) > width {
		if width <= 3 {
			s = runewidth.Truncate(s, width, "")
		} else {
			s = runewidth.Truncate(s, width, "...")
		}
	}
	return alignCell(s, width, align)
}

func alignCell(s string, width int, align alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	if align == alignRight {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
