package gomkit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeStub creates an executable shell script standing in for Rscript.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stub.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func testRequest() RunRequest {
	return RunRequest{
		Table:    NewTable([]string{"id", "AGE"}, [][]string{{"1", "30"}}),
		Filename: "dataset.csv",
		KInitial: 2,
		KFinal:   3,
		CaseID:   "id",
	}
}

func TestRscriptRunner_Success(t *testing.T) {
	// stub echoes its args to stdout and writes JSON to --output-path
	stub := writeStub(t, `
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output-path" ]; then out="$2"; fi
  shift
done
echo '{"status":"done","k":3}' > "$out"
`)
	runner := NewRscriptRunner(stub, "model.R")

	result, err := runner.Run(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(result.Output), `"status":"done"`) {
		t.Errorf("unexpected output: %s", result.Output)
	}
}

func TestRscriptRunner_NonZeroExit(t *testing.T) {
	stub := writeStub(t, `
echo "fitting k=2"
echo "convergence failure" >&2
exit 3
`)
	runner := NewRscriptRunner(stub, "model.R")

	_, err := runner.Run(context.Background(), testRequest())
	var runErr *ErrModelRun
	if !errors.As(err, &runErr) {
		t.Fatalf("expected ErrModelRun, got %v", err)
	}
	if runErr.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", runErr.ExitCode)
	}
	if !strings.Contains(runErr.Stderr, "convergence failure") {
		t.Errorf("expected stderr captured, got %q", runErr.Stderr)
	}
	if !strings.Contains(runErr.Stdout, "fitting") {
		t.Errorf("expected stdout captured, got %q", runErr.Stdout)
	}
}

func TestRscriptRunner_ZeroExitWithoutOutput(t *testing.T) {
	stub := writeStub(t, `exit 0`)
	runner := NewRscriptRunner(stub, "model.R")

	_, err := runner.Run(context.Background(), testRequest())
	var runErr *ErrModelRun
	if !errors.As(err, &runErr) {
		t.Fatalf("expected ErrModelRun, got %v", err)
	}
	if !runErr.MissingOutput {
		t.Errorf("expected MissingOutput to be set: %+v", runErr)
	}
}

func TestRscriptRunner_InvalidJSONOutput(t *testing.T) {
	stub := writeStub(t, `
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output-path" ]; then out="$2"; fi
  shift
done
echo 'not json at all' > "$out"
`)
	runner := NewRscriptRunner(stub, "model.R")

	_, err := runner.Run(context.Background(), testRequest())
	if err == nil || !strings.Contains(err.Error(), "not valid JSON") {
		t.Fatalf("expected invalid JSON error, got %v", err)
	}
}

func TestRscriptRunner_Timeout(t *testing.T) {
	stub := writeStub(t, `sleep 5`)
	runner := NewRscriptRunner(stub, "model.R", WithRunTimeout(200*time.Millisecond))

	_, err := runner.Run(context.Background(), testRequest())
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestRscriptRunner_PassesArgs(t *testing.T) {
	// stub dumps its full argument list into the output JSON
	stub := writeStub(t, `
out=""
args="$*"
while [ $# -gt 0 ]; do
  if [ "$1" = "--output-path" ]; then out="$2"; fi
  shift
done
printf '{"args": "%s"}' "$args" > "$out"
`)
	runner := NewRscriptRunner(stub, "model.R")

	req := testRequest()
	req.Vars = []string{"AGE", "SEX"}
	result, err := runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(result.Output)
	for _, want := range []string{
		"model.R",
		"--k-initial 2",
		"--k-final 3",
		"--case-id id",
		"--internal-vars AGE,SEX",
		"dataset.csv",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected args to contain %q, got %s", want, got)
		}
	}
}
