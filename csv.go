package gomkit

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"
)

// ReadCSV parses delimited text into an all-string Table. The input must be
// valid UTF-8; anything else is rejected with ErrBadEncoding rather than
// silently mangled. Rows of uneven width are accepted (short rows pad with
// missing cells) so that sanitization sees everything the file carried.
func ReadCSV(data []byte) (*Table, error) {
	if !utf8.Valid(data) {
		return nil, &ErrBadEncoding{Offset: invalidOffset(data)}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, wrapCSVErr(err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, wrapCSVErr(err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
	}

	return NewTable(header, rows), nil
}

// WriteCSV serializes the table as comma-delimited text. Numeric cells use
// the shortest round-trippable representation; missing cells are empty.
func WriteCSV(t *Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	row := make([]string, len(t.Columns))
	for r := 0; r < t.RowCount(); r++ {
		for i, col := range t.Columns {
			row[i] = col.Cells[r].Format(col.Kind)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func wrapCSVErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ErrMalformedCSV{Line: pe.Line, Err: err}
	}
	return &ErrMalformedCSV{Err: err}
}

// invalidOffset returns the byte offset of the first invalid UTF-8 sequence.
func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(data)
}
