package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// columnGap separates table columns.
const columnGap = "  "

// Table lays out the address and balance listings as aligned columns.
// Widths are counted in runes, not bytes, so shortened addresses like
// 0xd8dA…6045 do not skew alignment.
type Table struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
}

// NewTable creates a table with the given header row.
func NewTable(headers ...string) *Table {
	return &Table{
		headers:    headers,
		rightAlign: make(map[int]bool),
	}
}

// AlignRight right-aligns the given column indexes. Amount columns read
// better with the decimal points stacked.
func (t *Table) AlignRight(cols ...int) {
	for _, col := range cols {
		t.rightAlign[col] = true
	}
}

// AddRow appends a data row. Missing trailing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the header, a separator line, and the rows.
func (t *Table) Render(w io.Writer) error {
	if len(t.headers) == 0 {
		return nil
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	dashes := make([]string, len(widths))
	for i, width := range widths {
		dashes[i] = strings.Repeat("-", width)
	}

	lines := []string{t.line(t.headers, widths), t.line(dashes, widths)}
	for _, row := range t.rows {
		lines = append(lines, t.line(row, widths))
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// String renders the table into memory.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

// line lays out one row. The last column is never padded, so lines carry
// no trailing whitespace.
func (t *Table) line(cells []string, widths []int) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			b.WriteString(columnGap)
		}

		pad := width - utf8.RuneCountInString(cell)
		switch {
		case t.rightAlign[i]:
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
		case i == len(widths)-1:
			b.WriteString(cell)
		default:
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return strings.TrimRight(b.String(), " ")
}
