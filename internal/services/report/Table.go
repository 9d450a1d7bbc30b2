package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RenderTable draws a box table. widths are minimum column widths; a
// column grows to fit its longest cell. Every row must have one cell per
// header.
func RenderTable(headers []string, widths []int, rows [][]string) string {
	if len(headers) != len(widths) {
		panic(fmt.Sprintf("report: %d headers but %d widths", len(headers), len(widths)))
	}
	for i, r := range rows {
		if len(r) != len(headers) {
			panic(fmt.Sprintf("report: row %d has %d cells, want %d", i, len(r), len(headers)))
		}
	}

	widths = fit(widths, headers, rows)

	var b strings.Builder
	b.WriteString(border(widths, "┌", "┬", "┐"))
	b.WriteString(row(headers, widths))
	b.WriteString(border(widths, "├", "┼", "┤"))
	for _, r := range rows {
		b.WriteString(row(r, widths))
	}
	b.WriteString(border(widths, "└", "┴", "┘"))
	return b.String()
}

func fit(widths []int, headers []string, rows [][]string) []int {
	out := append([]int(nil), widths...)
	for _, r := range append([][]string{headers}, rows...) {
		for i, cell := range r {
			out[i] = max(out[i], utf8.RuneCountInString(cell))
		}
	}
	return out
}

func border(widths []int, left, mid, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return left + strings.Join(parts, mid) + right + "\n"
}

func row(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = " " + pad(cell, widths[i]) + " "
	}
	return "│" + strings.Join(parts, "│") + "│\n"
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}
