package gomkit

import (
	"fmt"
	"strings"
)

// ErrBadEncoding reports input that is not valid UTF-8.
type ErrBadEncoding struct {
	Offset int
}

func (e *ErrBadEncoding) Error() string {
	return fmt.Sprintf("input is not valid UTF-8 (first invalid byte at offset %d)", e.Offset)
}

// ErrMalformedCSV reports delimited text that could not be parsed as a table.
type ErrMalformedCSV struct {
	Line int
	Err  error
}

func (e *ErrMalformedCSV) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed CSV at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed CSV: %v", e.Err)
}

func (e *ErrMalformedCSV) Unwrap() error { return e.Err }

// ErrMissingColumns reports requested column names absent from a table.
// Missing is the exact complement of the request against the table's columns;
// Available lists what the table actually has so callers can surface both.
type ErrMissingColumns struct {
	Missing   []string
	Available []string
}

func (e *ErrMissingColumns) Error() string {
	return fmt.Sprintf("columns not found: %s (available: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// ErrSectionNotFound reports that a report section header was never seen.
type ErrSectionNotFound struct {
	Marker string
}

func (e *ErrSectionNotFound) Error() string {
	return fmt.Sprintf("section %q not found in report", e.Marker)
}

// ErrSchemaMismatch reports a row or column arity that does not match the
// expected profile schema.
type ErrSchemaMismatch struct {
	Want int
	Got  int
	Row  int // 0-based record index, -1 when not row-specific
}

func (e *ErrSchemaMismatch) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("schema mismatch at record %d: want %d fields, got %d", e.Row, e.Want, e.Got)
	}
	return fmt.Sprintf("schema mismatch: want %d fields, got %d", e.Want, e.Got)
}

// ErrModelRun reports a failed external model invocation. Stdout and Stderr
// carry the collaborator's diagnostic output verbatim. MissingOutput marks
// the zero-exit-but-no-output-file case, which is distinct from a non-zero
// exit status.
type ErrModelRun struct {
	Cmd           string
	ExitCode      int
	Stdout        string
	Stderr        string
	MissingOutput bool
}

func (e *ErrModelRun) Error() string {
	if e.MissingOutput {
		return fmt.Sprintf("model run produced no output file (cmd: %s)", e.Cmd)
	}
	return fmt.Sprintf("model run failed with exit code %d: %s", e.ExitCode, strings.TrimSpace(e.Stderr))
}

// ErrArtifactNotFound reports that the derived table artifact does not exist
// yet at read time.
type ErrArtifactNotFound struct {
	Path string
}

func (e *ErrArtifactNotFound) Error() string {
	return fmt.Sprintf("derived table not found at %s", e.Path)
}
