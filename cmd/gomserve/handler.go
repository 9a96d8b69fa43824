package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dfellipe/gomkit"
	"github.com/dfellipe/gomkit/internal/config"
	"github.com/dfellipe/gomkit/observer"
)

const maxUploadBytes = 32 << 20 // 32MB

// server holds the wired pipeline pieces behind the HTTP handlers.
type server struct {
	cfg       config.Config
	runner    gomkit.ModelRunner
	store     gomkit.RunStore
	artifacts *gomkit.ArtifactStore
	inst      *observer.Instruments
	sem       chan struct{} // model-run capacity
}

func newServer(cfg config.Config, runner gomkit.ModelRunner, store gomkit.RunStore, inst *observer.Instruments) *server {
	return &server{
		cfg:       cfg,
		runner:    runner,
		store:     store,
		artifacts: gomkit.NewArtifactStore(cfg.Artifact.Path),
		inst:      inst,
		sem:       make(chan struct{}, cfg.Server.MaxConcurrentRuns),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload-data", s.handleUpload)
	mux.HandleFunc("GET /convert", s.handleConvert)
	mux.HandleFunc("GET /heatmap", s.handleHeatmap)
	mux.HandleFunc("GET /runs", s.handleRuns)
	mux.HandleFunc("GET /health", handleHealth)
	return mux
}

// handleUpload ingests a CSV dataset, validates the requested columns, and
// hands the cleaned table to the external model.
func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "file must be a CSV")
		return
	}

	kInitial, err := formInt(r, "k_initial")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kFinal, err := formInt(r, "k_final")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if kInitial < 1 || kFinal < kInitial {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid profile range: k_initial=%d k_final=%d", kInitial, kFinal))
		return
	}
	caseID := strings.TrimSpace(r.FormValue("case_id"))
	if caseID == "" {
		writeError(w, http.StatusBadRequest, "case_id is required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	tbl, err := gomkit.ReadCSV(data)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	tbl = tbl.Sanitize()

	if err := gomkit.ValidateColumns(tbl, []string{caseID}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vars := gomkit.SplitVars(r.FormValue("internal_vars"))
	if err := gomkit.ValidateColumns(tbl, vars); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Acquire a model-run slot — fail fast under load so uploads never
	// queue behind long computations.
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	default:
		writeError(w, http.StatusServiceUnavailable, "server busy: model run capacity reached")
		return
	}

	start := time.Now()
	result, err := s.runner.Run(r.Context(), gomkit.RunRequest{
		Table:    tbl,
		Filename: header.Filename,
		KInitial: kInitial,
		KFinal:   kFinal,
		CaseID:   caseID,
		Vars:     vars,
	})
	s.recordRun(r.Context(), gomkit.Run{
		Kind:       gomkit.RunKindModel,
		K:          kFinal,
		Rows:       tbl.RowCount(),
		DurationMs: time.Since(start).Milliseconds(),
	}, err)
	if err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"message":      "dataset processed",
		"file_name":    header.Filename,
		"model_output": result.Output,
	})
}

// handleConvert extracts the LMFR table from the log report for the
// requested profile count and persists it as the derived CSV artifact.
func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	k, err := queryInt(r, "k")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if k < s.cfg.Report.MinK || k > s.cfg.Report.MaxK {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("k must be between %d and %d", s.cfg.Report.MinK, s.cfg.Report.MaxK))
		return
	}
	vars := gomkit.SplitVars(r.URL.Query().Get("internal_vars"))

	reportPath := filepath.Join(s.cfg.Report.Dir,
		fmt.Sprintf(s.cfg.Report.PathPattern, k, k))
	f, err := os.Open(reportPath)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "report file not found: "+reportPath)
			return
		}
		writeError(w, http.StatusInternalServerError, "open report: "+err.Error())
		return
	}
	defer f.Close()

	lines, err := gomkit.ReadReportLines(f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read report: "+err.Error())
		return
	}

	start := time.Now()
	ext, err := gomkit.Extract(lines, gomkit.ExtractConfig{K: k, Variables: vars})
	var tbl *gomkit.Table
	if err == nil {
		tbl, err = gomkit.Project(ext.Records, k)
	}
	if err == nil {
		err = s.artifacts.Write(tbl)
	}

	rows, dropped := 0, 0
	if ext != nil {
		dropped = ext.Dropped
	}
	if tbl != nil {
		rows = tbl.RowCount()
	}
	if s.inst != nil {
		s.inst.RecordExtraction(r.Context(), k, rows, dropped, time.Since(start), err)
	}
	s.recordRun(r.Context(), gomkit.Run{
		Kind:       gomkit.RunKindExtract,
		K:          k,
		Rows:       rows,
		Dropped:    dropped,
		DurationMs: time.Since(start).Milliseconds(),
	}, err)

	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"message":      "LMFR table extracted and saved",
		"columns":      tbl.ColumnNames(),
		"rows_count":   tbl.RowCount(),
		"dropped_rows": ext.Dropped,
		"csv_path":     s.artifacts.Path(),
	})
}

// handleHeatmap serves the persisted LMFR table reshaped into sparse
// heatmap coordinates.
func (s *server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	tbl, err := s.artifacts.Read()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	heat, err := gomkit.Reshape(tbl)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	// ECharts wants each point as [x, y, value].
	points := make([][]float64, len(heat.Data))
	for i, c := range heat.Data {
		points[i] = []float64{float64(c.X), float64(c.Y), c.Value}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"xAxisLabels": heat.XLabels,
		"yAxisLabels": heat.YLabels,
		"data":        points,
		"valueKey":    "GoM coefficient",
	})
}

// handleRuns lists recent pipeline runs, newest first.
func (s *server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.store.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list runs: "+err.Error())
		return
	}

	type runPayload struct {
		ID         string `json:"id"`
		Kind       string `json:"kind"`
		K          int    `json:"k"`
		Status     string `json:"status"`
		Rows       int    `json:"rows"`
		Dropped    int    `json:"dropped_rows"`
		Detail     string `json:"detail,omitempty"`
		DurationMs int64  `json:"duration_ms"`
		CreatedAt  int64  `json:"created_at"`
	}
	out := make([]runPayload, len(runs))
	for i, run := range runs {
		out[i] = runPayload{
			ID: run.ID, Kind: run.Kind, K: run.K, Status: run.Status,
			Rows: run.Rows, Dropped: run.Dropped, Detail: run.Detail,
			DurationMs: run.DurationMs, CreatedAt: run.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// recordRun persists one run row, best-effort: history must never fail a
// request that otherwise succeeded.
func (s *server) recordRun(ctx context.Context, run gomkit.Run, opErr error) {
	run.ID = gomkit.NewID()
	run.CreatedAt = gomkit.NowUnix()
	run.Status = gomkit.RunOK
	if opErr != nil {
		run.Status = gomkit.RunError
		run.Detail = opErr.Error()
	}
	if err := s.store.RecordRun(ctx, run); err != nil {
		log.Printf("record run: %v", err)
	}
}

// statusFor maps pipeline errors onto HTTP statuses. Validation and input
// problems are the caller's fault; arity and collaborator failures are ours.
func statusFor(err error) int {
	var (
		badEnc   *gomkit.ErrBadEncoding
		badCSV   *gomkit.ErrMalformedCSV
		missing  *gomkit.ErrMissingColumns
		noSect   *gomkit.ErrSectionNotFound
		mismatch *gomkit.ErrSchemaMismatch
		noArt    *gomkit.ErrArtifactNotFound
		runErr   *gomkit.ErrModelRun
	)
	switch {
	case errors.As(err, &badEnc), errors.As(err, &badCSV),
		errors.As(err, &missing), errors.As(err, &noSect):
		return http.StatusBadRequest
	case errors.As(err, &noArt):
		return http.StatusNotFound
	case errors.As(err, &mismatch), errors.As(err, &runErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeModelError reports a failed model run with the collaborator's
// diagnostics verbatim.
func writeModelError(w http.ResponseWriter, err error) {
	var runErr *gomkit.ErrModelRun
	if !errors.As(err, &runErr) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":  runErr.Error(),
		"stdout": runErr.Stdout,
		"stderr": runErr.Stderr,
		"cmd":    runErr.Cmd,
	})
}

func formInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
