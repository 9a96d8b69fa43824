package gomkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// RscriptOption configures an RscriptRunner.
type RscriptOption func(*rscriptConfig)

type rscriptConfig struct {
	timeout time.Duration
	env     map[string]string
	logger  *slog.Logger
}

func defaultRscriptConfig() rscriptConfig {
	return rscriptConfig{
		timeout: 5 * time.Minute,
	}
}

// WithRunTimeout sets the maximum duration for one model run.
// Default: 5m.
func WithRunTimeout(d time.Duration) RscriptOption {
	return func(c *rscriptConfig) { c.timeout = d }
}

// WithRunEnv adds environment variables for the R subprocess, on top of the
// parent process environment.
func WithRunEnv(env map[string]string) RscriptOption {
	return func(c *rscriptConfig) { c.env = env }
}

// WithRunLogger sets a structured logger for run lifecycle events.
// If not set, no logs are emitted.
func WithRunLogger(l *slog.Logger) RscriptOption {
	return func(c *rscriptConfig) { c.logger = l }
}

// RscriptRunner implements ModelRunner by invoking an R script as a
// subprocess. Each run gets its own temp directory holding the serialized
// input CSV and the JSON output; the directory is removed when the run
// finishes.
type RscriptRunner struct {
	bin    string // Rscript binary, e.g. "Rscript"
	script string // path to the GoM fitting script
	cfg    rscriptConfig
}

var _ ModelRunner = (*RscriptRunner)(nil)

// NewRscriptRunner creates a runner for the given Rscript binary and model
// script path.
func NewRscriptRunner(bin, script string, opts ...RscriptOption) *RscriptRunner {
	cfg := defaultRscriptConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(discardLogHandler{})
	}
	return &RscriptRunner{bin: bin, script: script, cfg: cfg}
}

// Run serializes the request table, invokes the R script, and returns its
// JSON output. A non-zero exit yields ErrModelRun with the script's stdout
// and stderr verbatim; a zero exit with no output file is reported as the
// distinct missing-output variant of ErrModelRun.
func (r *RscriptRunner) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "gomkit-run-*")
	if err != nil {
		return RunResult{}, fmt.Errorf("model run: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	csvName := filepath.Base(req.Filename)
	if csvName == "." || csvName == "/" || csvName == "" {
		csvName = "input.csv"
	}
	csvPath := filepath.Join(dir, csvName)
	f, err := os.Create(csvPath)
	if err != nil {
		return RunResult{}, fmt.Errorf("model run: create input csv: %w", err)
	}
	if err := WriteCSV(req.Table, f); err != nil {
		f.Close()
		return RunResult{}, fmt.Errorf("model run: write input csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return RunResult{}, fmt.Errorf("model run: close input csv: %w", err)
	}

	outputPath := filepath.Join(dir, "model_output.json")
	args := []string{
		r.script,
		"--file-path", csvPath,
		"--k-initial", strconv.Itoa(req.KInitial),
		"--k-final", strconv.Itoa(req.KFinal),
		"--case-id", req.CaseID,
		"--output-path", outputPath,
	}
	if len(req.Vars) > 0 {
		args = append(args, "--internal-vars", strings.Join(req.Vars, ","))
	}

	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Env = r.buildEnv()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmdLine := r.bin + " " + strings.Join(args, " ")
	start := time.Now()
	r.cfg.logger.Debug("model run started", "cmd", cmdLine)

	err = cmd.Run()
	r.cfg.logger.Debug("model run finished", "duration", time.Since(start), "err", err)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return RunResult{}, fmt.Errorf("model run timed out after %s", r.cfg.timeout)
		}
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return RunResult{}, &ErrModelRun{
			Cmd:      cmdLine,
			ExitCode: exitCode,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return RunResult{}, &ErrModelRun{
			Cmd:           cmdLine,
			Stdout:        stdout.String(),
			Stderr:        stderr.String(),
			MissingOutput: true,
		}
	}
	if !json.Valid(data) {
		return RunResult{}, fmt.Errorf("model run: output is not valid JSON")
	}
	return RunResult{Output: json.RawMessage(data)}, nil
}

func (r *RscriptRunner) buildEnv() []string {
	env := os.Environ()
	for k, v := range r.cfg.env {
		env = append(env, k+"="+v)
	}
	return env
}

// discardLogHandler drops all log records.
type discardLogHandler struct{}

func (discardLogHandler) Enabled(context.Context, slog.Level) bool   { return false }
func (discardLogHandler) Handle(context.Context, slog.Record) error  { return nil }
func (d discardLogHandler) WithAttrs([]slog.Attr) slog.Handler       { return d }
func (d discardLogHandler) WithGroup(string) slog.Handler            { return d }
