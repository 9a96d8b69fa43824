package gomkit

import "context"

// Run statuses.
const (
	RunOK    = "ok"
	RunError = "error"
)

// Run kinds.
const (
	RunKindModel   = "model"   // external GoM computation
	RunKindExtract = "extract" // report extraction + projection
)

// Run is one recorded pipeline operation, kept for operational history.
type Run struct {
	ID         string
	Kind       string
	K          int    // profile count (KFinal for model runs)
	Status     string
	Rows       int    // rows produced (typed table rows, or model input rows)
	Dropped    int    // report lines dropped during extraction
	Detail     string // error text when Status is RunError
	DurationMs int64
	CreatedAt  int64 // Unix seconds
}

// RunStore abstracts run-history persistence.
type RunStore interface {
	// Init creates required schema objects. Idempotent.
	Init(ctx context.Context) error

	// RecordRun appends one run row.
	RecordRun(ctx context.Context, run Run) error

	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)

	Close() error
}
