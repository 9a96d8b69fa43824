package gomkit

import (
	"context"
	"encoding/json"
)

// RunRequest carries a cleaned table and the model parameters for one
// external GoM computation.
type RunRequest struct {
	// Table is the sanitized dataset handed to the model.
	Table *Table

	// Filename is the original upload name; the runner uses it for the
	// on-disk CSV it serializes for the collaborator.
	Filename string

	// KInitial and KFinal bound the profile-count range to fit.
	KInitial int
	KFinal   int

	// CaseID names the case-identifier column. Must exist in Table.
	CaseID string

	// Vars optionally restricts the model to these internal variables.
	Vars []string
}

// RunResult is the collaborator's output.
type RunResult struct {
	// Output is the JSON document the model produced, verbatim.
	Output json.RawMessage
}

// ModelRunner invokes the external statistical model. Implementations own
// the temp-file lifecycle: serializing the table, collecting the output
// document, and cleaning up.
type ModelRunner interface {
	Run(ctx context.Context, req RunRequest) (RunResult, error)
}
