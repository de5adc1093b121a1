package main

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/CTAG07/charlm/pkg/charlm"
)

// formatModelTable renders the window table of m as aligned columns, one row
// per (window, character) pair. Windows are quoted so that whitespace and
// control characters stay visible. At most limit windows are printed when
// limit is positive, and rows are truncated to width when width is positive.
func formatModelTable(m *charlm.Model, limit, width int) []string {
	headers := []string{"WINDOW", "NEXT", "COUNT", "P", "CP"}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}

	var rows [][]string
	printed := 0
	m.Table().Each(func(window string, list *charlm.EntryList) bool {
		if limit > 0 && printed >= limit {
			return false
		}
		printed++
		for i, e := range list.Entries() {
			w := ""
			if i == 0 {
				w = strconv.Quote(window)
			}
			rows = append(rows, []string{
				w,
				strconv.QuoteRune(e.Char),
				strconv.Itoa(e.Count),
				strconv.FormatFloat(e.Probability, 'f', 4, 64),
				strconv.FormatFloat(e.CumulativeProbability, 'f', 4, 64),
			})
		}
		return true
	})

	lines := formatTable(headers, rows, rightAlign)
	if width > 0 {
		for i, line := range lines {
			lines[i] = runewidth.Truncate(line, width, "…")
		}
	}
	return lines
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(headers, widths, rightAlignCols))
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		if rightAlignCols[i] {
			b.WriteString(runewidth.FillLeft(cell, widths[i]))
		} else if i < len(widths)-1 {
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		} else {
			b.WriteString(cell)
		}
	}
	return b.String()
}
