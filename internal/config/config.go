// Package config loads the gomserve configuration.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Model    ModelConfig    `toml:"model"`
	Report   ReportConfig   `toml:"report"`
	Artifact ArtifactConfig `toml:"artifact"`
	Database DatabaseConfig `toml:"database"`
	Observer ObserverConfig `toml:"observer"`
}

type ServerConfig struct {
	Addr              string   `toml:"addr"`
	CORSOrigins       []string `toml:"cors_origins"`
	MaxConcurrentRuns int      `toml:"max_concurrent_runs"`
}

type ModelConfig struct {
	RscriptBin     string `toml:"rscript_bin"`
	ScriptPath     string `toml:"script_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ReportConfig struct {
	// Dir is the base directory holding the GoM log reports.
	Dir string `toml:"dir"`
	// PathPattern locates the report for a profile count; it receives k
	// twice, e.g. "K%d/LogGoMK%d(1).TXT".
	PathPattern string `toml:"path_pattern"`
	// MinK and MaxK bound the profile counts the convert endpoint accepts.
	MinK int `toml:"min_k"`
	MaxK int `toml:"max_k"`
}

type ArtifactConfig struct {
	Path string `toml:"path"`
}

type DatabaseConfig struct {
	// Path is the SQLite file used when PostgresURL is empty.
	Path        string `toml:"path"`
	PostgresURL string `toml:"postgres_url"`
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8000",
			CORSOrigins:       []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			MaxConcurrentRuns: 2,
		},
		Model: ModelConfig{
			RscriptBin:     "Rscript",
			ScriptPath:     "GomRccp_API.R",
			TimeoutSeconds: 300,
		},
		Report: ReportConfig{
			Dir:         ".",
			PathPattern: "K%d/LogGoMK%d(1).TXT",
			MinK:        2,
			MaxK:        4,
		},
		Artifact: ArtifactConfig{Path: "csv_results/LMFR.csv"},
		Database: DatabaseConfig{Path: "gomkit.db"},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "gomkit.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// Env overrides
	if v := os.Getenv("GOMKIT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GOMKIT_RSCRIPT_BIN"); v != "" {
		cfg.Model.RscriptBin = v
	}
	if v := os.Getenv("GOMKIT_SCRIPT_PATH"); v != "" {
		cfg.Model.ScriptPath = v
	}
	if v := os.Getenv("GOMKIT_REPORT_DIR"); v != "" {
		cfg.Report.Dir = v
	}
	if v := os.Getenv("GOMKIT_ARTIFACT_PATH"); v != "" {
		cfg.Artifact.Path = v
	}
	if v := os.Getenv("GOMKIT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GOMKIT_POSTGRES_URL"); v != "" {
		cfg.Database.PostgresURL = v
	}
	if v := os.Getenv("GOMKIT_MAX_CONCURRENT_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.MaxConcurrentRuns = n
		}
	}
	if os.Getenv("GOMKIT_OBSERVER_ENABLED") == "true" || os.Getenv("GOMKIT_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	return cfg
}
