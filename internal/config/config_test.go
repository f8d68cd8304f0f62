package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Split.OnMissingBoundary != OnMissingBoundarySkip {
		t.Fatalf("default fallback policy = %q", cfg.Split.OnMissingBoundary)
	}
	if cfg.HardCutFallback() {
		t.Fatal("default config should not hard-cut")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("config file should not exist")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Matching.FuzzyThreshold != defaultFuzzyThreshold {
		t.Fatalf("fuzzy threshold = %v", cfg.Matching.FuzzyThreshold)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
input_dir = "` + filepath.Join(dir, "in") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
staging_dir = "` + filepath.Join(dir, "staging") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
catalog_path = "` + filepath.Join(dir, "episodes.csv") + `"

[split]
target_time = 600.0
on_missing_boundary = "HARD_CUT"

[workflow]
workers = 3
video_extensions = ["MKV", ".mp4"]

[tools]
timeout_seconds = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("config file should exist")
	}
	if !cfg.HardCutFallback() {
		t.Fatal("hard_cut policy not recognized")
	}
	if cfg.Workflow.Workers != 3 {
		t.Fatalf("workers = %d", cfg.Workflow.Workers)
	}
	if got := cfg.Workflow.VideoExtensions; len(got) != 2 || got[0] != ".mkv" || got[1] != ".mp4" {
		t.Fatalf("extensions = %v", got)
	}
	if cfg.ToolTimeout() != 30*time.Second {
		t.Fatalf("tool timeout = %v", cfg.ToolTimeout())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"darkness", func(c *Config) { c.Split.DarknessThreshold = 1.5 }, "darkness_threshold"},
		{"min black", func(c *Config) { c.Split.MinBlackDuration = 0 }, "min_black_duration"},
		{"policy", func(c *Config) { c.Split.OnMissingBoundary = "guess" }, "on_missing_boundary"},
		{"fuzzy", func(c *Config) { c.Matching.FuzzyThreshold = -0.1 }, "fuzzy_threshold"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[split]") {
		t.Fatal("sample config missing [split] section")
	}
}
