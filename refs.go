package gomkit

import "strings"

// SplitVars splits a comma-separated variable reference string into a clean
// name list: tokens are trimmed and empty entries discarded, order preserved.
// Returns nil for an empty or blank input.
func SplitVars(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var vars []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		vars = append(vars, tok)
	}
	return vars
}

// ValidateColumns checks that every requested name exists as a column of t.
// On failure it returns ErrMissingColumns carrying the exact missing set and
// the table's available columns; the table is never mutated.
func ValidateColumns(t *Table, names []string) error {
	missing := t.MissingColumns(names)
	if len(missing) == 0 {
		return nil
	}
	return &ErrMissingColumns{Missing: missing, Available: t.ColumnNames()}
}
