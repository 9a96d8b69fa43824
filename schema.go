package gomkit

import (
	"fmt"
	"strconv"
)

// Schema is the expected column layout of an extracted LMFR table for a
// given profile count.
type Schema struct {
	Columns []string
	Width   int // len(Columns) = 4 + 2k
}

// ProfileSchema generates the LMFR column layout for k profiles:
// Variable, Level, n, perc, then one frequency column and one ratio column
// per profile. Valid for any k >= 1; the historical reports use k in 2..4.
func ProfileSchema(k int) Schema {
	cols := make([]string, 0, 4+2*k)
	cols = append(cols, "Variable", "Level", "n", "perc")
	for i := 1; i <= k; i++ {
		cols = append(cols, fmt.Sprintf("k%d", i))
	}
	for i := 1; i <= k; i++ {
		cols = append(cols, fmt.Sprintf("k%d_perc_lj", i))
	}
	return Schema{Columns: cols, Width: len(cols)}
}

// NumericColumns returns the schema's numeric column names: everything
// after Variable and Level.
func (s Schema) NumericColumns() []string {
	return s.Columns[2:]
}

// Project assembles extracted records into the typed LMFR table for k
// profiles. Every record must match the schema width exactly or the whole
// projection fails with ErrSchemaMismatch. Numeric columns are coerced per
// cell: a token that does not parse becomes a missing cell, never a
// dropped row.
func Project(records []Record, k int) (*Table, error) {
	schema := ProfileSchema(k)

	rows := make([][]string, len(records))
	for i, rec := range records {
		if len(rec) != schema.Width {
			return nil, &ErrSchemaMismatch{Want: schema.Width, Got: len(rec), Row: i}
		}
		rows[i] = rec
	}

	t := NewTable(schema.Columns, rows)
	for _, name := range schema.NumericColumns() {
		col := t.Column(name)
		col.Kind = Numeric
		for i, cell := range col.Cells {
			if cell.Missing {
				continue
			}
			f, err := strconv.ParseFloat(cell.Str, 64)
			if err != nil {
				col.Cells[i] = Value{Missing: true}
				continue
			}
			col.Cells[i] = Value{Num: f}
		}
	}
	return t, nil
}
