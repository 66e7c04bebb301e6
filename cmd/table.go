package cmd

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// table prints left-aligned columns sized by display width, so prompts
// with × and ÷ line up.
type table struct {
	header []string
	rows   [][]string
	max    []int // per-column width cap, 0 = none
}

func newTable(header ...string) *table {
	return &table{header: header, max: make([]int, len(header))}
}

func (t *table) limit(col, width int) *table {
	t.max[col] = width
	return t
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	w := make([]int, len(t.header))
	for _, row := range append([][]string{t.header}, t.rows...) {
		for i, c := range row {
			if i < len(w) {
				w[i] = max(w[i], runewidth.StringWidth(c))
			}
		}
	}
	for i, m := range t.max {
		if m > 0 {
			w[i] = min(w[i], m)
		}
	}
	return w
}

func (t *table) write(out io.Writer) {
	w := t.widths()
	line := func(cells []string) {
		parts := make([]string, len(w))
		for i := range w {
			var c string
			if i < len(cells) {
				c = runewidth.Truncate(cells[i], w[i], "…")
			}
			parts[i] = runewidth.FillRight(c, w[i])
		}
		io.WriteString(out, strings.TrimRight(strings.Join(parts, "  "), " ")+"\n")
	}

	line(t.header)
	total := 2 * (len(w) - 1)
	for _, n := range w {
		total += n
	}
	io.WriteString(out, strings.Repeat("─", total)+"\n")
	for _, row := range t.rows {
		line(row)
	}
}
