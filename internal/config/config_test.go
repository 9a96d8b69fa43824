package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8000" {
		t.Errorf("expected default addr :8000, got %q", cfg.Server.Addr)
	}
	if cfg.Report.MinK != 2 || cfg.Report.MaxK != 4 {
		t.Errorf("expected k bounds 2..4, got %d..%d", cfg.Report.MinK, cfg.Report.MaxK)
	}
	if cfg.Model.RscriptBin != "Rscript" {
		t.Errorf("expected Rscript binary default, got %q", cfg.Model.RscriptBin)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomkit.toml")
	data := `
[server]
addr = ":9000"
max_concurrent_runs = 5

[report]
dir = "/data/reports"

[database]
path = "/data/runs.db"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr from file, got %q", cfg.Server.Addr)
	}
	if cfg.Server.MaxConcurrentRuns != 5 {
		t.Errorf("expected 5 concurrent runs, got %d", cfg.Server.MaxConcurrentRuns)
	}
	if cfg.Report.Dir != "/data/reports" {
		t.Errorf("expected report dir from file, got %q", cfg.Report.Dir)
	}
	// untouched sections keep defaults
	if cfg.Artifact.Path != "csv_results/LMFR.csv" {
		t.Errorf("expected default artifact path, got %q", cfg.Artifact.Path)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomkit.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GOMKIT_ADDR", ":7000")
	t.Setenv("GOMKIT_RSCRIPT_BIN", "/usr/local/bin/Rscript")

	cfg := Load(path)
	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected env to win over file, got %q", cfg.Server.Addr)
	}
	if cfg.Model.RscriptBin != "/usr/local/bin/Rscript" {
		t.Errorf("expected env rscript bin, got %q", cfg.Model.RscriptBin)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if cfg.Server.Addr != ":8000" {
		t.Errorf("expected defaults when file absent, got %q", cfg.Server.Addr)
	}
}
