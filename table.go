package gomkit

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind is the declared type of a table column.
type Kind int

const (
	// String columns hold cleaned text cells.
	String Kind = iota
	// Numeric columns hold float64 cells; individual cells may be missing.
	Numeric
)

// Value is a single table cell. In a String column Str is authoritative;
// in a Numeric column Num is. Missing marks an absent cell in either kind.
type Value struct {
	Str     string
	Num     float64
	Missing bool
}

// Column is an ordered sequence of cells under a unique name.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Value
}

// Table is an ordered sequence of named columns of equal length.
type Table struct {
	Columns []Column
}

// NewTable builds an all-string table from a header and rows. Rows shorter
// than the header are padded with missing cells; longer rows are truncated.
// Empty cells are marked missing.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Columns: make([]Column, len(header))}
	for i, name := range header {
		cells := make([]Value, len(rows))
		for r, row := range rows {
			if i >= len(row) || row[i] == "" {
				cells[r] = Value{Missing: true}
				continue
			}
			cells[r] = Value{Str: row[i]}
		}
		t.Columns[i] = Column{Name: name, Kind: String, Cells: cells}
	}
	return t
}

// RowCount returns the number of rows. All columns have equal length.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnNames returns column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// MissingColumns returns the subsequence of names not present among the
// table's columns, preserving request order. Empty iff every name exists.
func (t *Table) MissingColumns(names []string) []string {
	var missing []string
	for _, n := range names {
		if t.Column(n) == nil {
			missing = append(missing, n)
		}
	}
	return missing
}

// Sanitize returns a cleaned copy of the table: column names and string
// cells are stripped of double/single quotes and surrounding whitespace
// (names additionally NFC-normalized), then each column is coerced to
// Numeric when every non-missing cell parses as a number. A single
// unparseable cell keeps the whole column String. Sanitizing an already
// sanitized table is a no-op.
func (t *Table) Sanitize() *Table {
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i, col := range t.Columns {
		cleaned := Column{
			Name:  norm.NFC.String(cleanToken(col.Name)),
			Kind:  col.Kind,
			Cells: make([]Value, len(col.Cells)),
		}
		for j, cell := range col.Cells {
			if cell.Missing {
				cleaned.Cells[j] = Value{Missing: true}
				continue
			}
			if col.Kind == Numeric {
				cleaned.Cells[j] = cell
				continue
			}
			s := cleanToken(cell.Str)
			if s == "" {
				cleaned.Cells[j] = Value{Missing: true}
				continue
			}
			cleaned.Cells[j] = Value{Str: s}
		}
		if cleaned.Kind == String {
			coerceNumeric(&cleaned)
		}
		out.Columns[i] = cleaned
	}
	return out
}

// cleanToken strips embedded quote characters and surrounding whitespace.
func cleanToken(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}

// coerceNumeric converts a String column to Numeric when all non-missing
// cells parse. All-or-nothing: one failure leaves the column untouched.
func coerceNumeric(col *Column) {
	nums := make([]float64, len(col.Cells))
	seen := false
	for i, cell := range col.Cells {
		if cell.Missing {
			continue
		}
		f, err := strconv.ParseFloat(cell.Str, 64)
		if err != nil {
			return
		}
		nums[i] = f
		seen = true
	}
	if !seen {
		// all-missing column carries no evidence of being numeric
		return
	}
	col.Kind = Numeric
	for i := range col.Cells {
		if col.Cells[i].Missing {
			continue
		}
		col.Cells[i] = Value{Num: nums[i]}
	}
}

// Format renders a cell for serialization. Missing cells render empty.
func (v Value) Format(kind Kind) string {
	if v.Missing {
		return ""
	}
	if kind == Numeric {
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return v.Str
}
