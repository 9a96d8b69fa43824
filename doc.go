// Package gomkit normalizes tabular data for Grade-of-Membership (GoM) analysis.
//
// It provides the pieces of a GoM workflow that deal with text tables:
// CSV ingestion and sanitizing, variable reference validation, extraction of
// the LMFR (Lambda-Marginal Frequency Ratio) table from the model's
// fixed-layout log report, projection into a typed table, and reshaping into
// heatmap coordinates for a charting front end.
//
// The statistical model itself is an external collaborator: a [ModelRunner]
// is handed a cleaned CSV and parameters and must produce a JSON result.
// [RscriptRunner] is the included implementation, invoking an R script as a
// subprocess.
//
// # Pipeline
//
// Upload path:
//
//	tbl, err := gomkit.ReadCSV(upload)
//	tbl = tbl.Sanitize()
//	if missing := tbl.MissingColumns(vars); len(missing) > 0 { ... }
//	result, err := runner.Run(ctx, gomkit.RunRequest{...})
//
// Report path:
//
//	ext, err := gomkit.Extract(reportLines, gomkit.ExtractConfig{Variables: vars})
//	table, err := gomkit.Project(ext.Records, k)
//	heat, err := gomkit.Reshape(table)
//
// Run history persistence is abstracted by [RunStore] with implementations in
// store/sqlite (local, pure Go) and store/postgres (pgx pool injected by the
// caller). The observer package adds OTEL instrumentation around extraction
// and model runs.
//
// See cmd/gomserve for the complete HTTP serving binary.
package gomkit
