package parser

import (
	"math"
	"strconv"
	"strings"
)

// CellKind discriminates the two cell variants.
type CellKind uint8

const (
	CellText CellKind = iota
	CellNumber
)

// Cell is one table cell: a finite number or a string.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

// Number builds a numeric cell.
func Number(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

// Text builds a text cell.
func Text(s string) Cell { return Cell{Kind: CellText, Str: s} }

// IsNumber reports whether the cell holds a number.
func (c Cell) IsNumber() bool { return c.Kind == CellNumber }

// IsEmpty reports whether the cell is the empty string.
func (c Cell) IsEmpty() bool { return c.Kind == CellText && c.Str == "" }

// String renders the cell roughly the way it appeared in the source.
func (c Cell) String() string {
	if c.Kind == CellNumber {
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	}
	return c.Str
}

// CoerceCell converts a raw cell string into a typed cell. A cell becomes
// numeric iff the whole string (ignoring surrounding spaces) parses as a
// finite float; everything else is kept as trimmed, quote-stripped text. A
// quoted numeral stays text: quotes are an explicit request for a string.
func CoerceCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return Number(v)
		}
	}
	return Text(stripQuotes(trimmed))
}

// Table is a parsed tabular payload. Rows are aligned with Columns: every row
// has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// ParseTable parses comma-separated text into a table. The first non-empty
// line is the header; names are trimmed and quote-stripped. Data lines are
// split positionally: missing trailing cells become empty text cells, extra
// cells beyond the header are dropped. Input with no data lines yields a
// table with zero rows.
func ParseTable(content string) *Table {
	content = normalizeNewlines(content)
	var lines []string
	for _, ln := range strings.Split(content, "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		lines = append(lines, ln)
	}
	t := &Table{}
	if len(lines) == 0 {
		return t
	}
	for _, name := range strings.Split(lines[0], ",") {
		t.Columns = append(t.Columns, stripQuotes(strings.TrimSpace(name)))
	}
	for _, ln := range lines[1:] {
		parts := strings.Split(ln, ",")
		row := make([]Cell, len(t.Columns))
		for j := range t.Columns {
			if j < len(parts) {
				row[j] = CoerceCell(parts[j])
			} else {
				row[j] = Text("")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TableFromRecords builds a table from pre-split rows (XLSX sheets, JSON
// object arrays). The first record is the header; cell coercion matches
// ParseTable.
func TableFromRecords(records [][]string) *Table {
	t := &Table{}
	if len(records) == 0 {
		return t
	}
	for _, name := range records[0] {
		t.Columns = append(t.Columns, stripQuotes(strings.TrimSpace(name)))
	}
	for _, rec := range records[1:] {
		row := make([]Cell, len(t.Columns))
		for j := range t.Columns {
			if j < len(rec) {
				row[j] = CoerceCell(rec[j])
			} else {
				row[j] = Text("")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// RowMap returns row i keyed by column name. Duplicate column names keep the
// last cell.
func (t *Table) RowMap(i int) map[string]Cell {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	m := make(map[string]Cell, len(t.Columns))
	for j, name := range t.Columns {
		m[name] = t.Rows[i][j]
	}
	return m
}

// Column returns all cells of the named column in row order.
func (t *Table) Column(name string) ([]Cell, bool) {
	for j, col := range t.Columns {
		if col == name {
			cells := make([]Cell, len(t.Rows))
			for i := range t.Rows {
				cells[i] = t.Rows[i][j]
			}
			return cells, true
		}
	}
	return nil, false
}

// Numbers returns every numeric cell in row-major order (row by row, column
// order within a row).
func (t *Table) Numbers() []float64 {
	var out []float64
	for _, row := range t.Rows {
		for _, c := range row {
			if c.Kind == CellNumber {
				out = append(out, c.Num)
			}
		}
	}
	return out
}

// NumericMatrix projects the fully numeric columns into an observation
// matrix: one row per table row, one entry per fully numeric column, column
// order preserved. Columns with any non-numeric cell are excluded so the
// matrix stays rectangular.
func (t *Table) NumericMatrix() (names []string, rows [][]float64) {
	var idx []int
	for j, name := range t.Columns {
		numeric := len(t.Rows) > 0
		for _, row := range t.Rows {
			if row[j].Kind != CellNumber {
				numeric = false
				break
			}
		}
		if numeric {
			idx = append(idx, j)
			names = append(names, name)
		}
	}
	if len(idx) == 0 {
		return names, nil
	}
	rows = make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		vals := make([]float64, len(idx))
		for k, j := range idx {
			vals[k] = row[j].Num
		}
		rows[i] = vals
	}
	return names, rows
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
