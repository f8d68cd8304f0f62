package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and catalog location configuration.
type Paths struct {
	InputDir    string `toml:"input_dir"`
	OutputDir   string `toml:"output_dir"`
	StagingDir  string `toml:"staging_dir"`
	LogDir      string `toml:"log_dir"`
	CatalogPath string `toml:"catalog_path"`
}

// Split contains the boundary detection and assembly tuning knobs.
type Split struct {
	// IntroDuration is the length of the show's recurring intro in seconds.
	IntroDuration float64 `toml:"intro_duration"`
	// TargetTime is where the episode boundary is expected, in seconds.
	TargetTime float64 `toml:"target_time"`
	// TimeMargin bounds the detection window to [target-margin, target+margin].
	TimeMargin float64 `toml:"time_margin"`
	// DarknessThreshold is the per-pixel luminance threshold (0..1) below
	// which a frame counts as dark.
	DarknessThreshold float64 `toml:"darkness_threshold"`
	// MinBlackDuration is the shortest dark run that counts as a transition.
	MinBlackDuration float64 `toml:"min_black_duration"`
	// MaxBlackDuration discards long fades and credits rolls.
	MaxBlackDuration float64 `toml:"max_black_duration"`
	// OnMissingBoundary selects the fallback policy when no transition is
	// found: "skip" fails the file, "hard_cut" splits at target_time.
	OnMissingBoundary string `toml:"on_missing_boundary"`
	// OverwriteOutputs controls whether existing output files are replaced
	// or the file is skipped deterministically.
	OverwriteOutputs bool `toml:"overwrite_outputs"`
}

// Matching contains fuzzy episode matching configuration.
type Matching struct {
	// FuzzyThreshold is the minimum normalized similarity (0..1) for a
	// catalog title match to be accepted.
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
}

// Tools contains external media tool configuration.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	// TimeoutSeconds bounds every single tool invocation.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Workflow contains batch processing configuration.
type Workflow struct {
	// Workers bounds concurrent file pipelines. 1 means batch-sequential.
	Workers int `toml:"workers"`
	// VideoExtensions lists the input containers to pick up, with dots.
	VideoExtensions []string `toml:"video_extensions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for episplit.
//
// Configuration sections by subsystem:
//   - Paths: input/output/staging/log directories and the episode catalog
//   - Split: detection window, darkness thresholds, intro duration, policies
//   - Matching: fuzzy catalog matching threshold
//   - Tools: ffmpeg/ffprobe binaries and the per-invocation timeout
//   - Workflow: worker bound and recognized container extensions
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Split    Split    `toml:"split"`
	Matching Matching `toml:"matching"`
	Tools    Tools    `toml:"tools"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/episplit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("episplit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StagingDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for detection and assembly.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFmpeg); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFprobe); bin != "" {
		return bin
	}
	return "ffprobe"
}

// ToolTimeout returns the per-invocation deadline for external tools.
func (c *Config) ToolTimeout() time.Duration {
	if c.Tools.TimeoutSeconds <= 0 {
		return time.Duration(defaultToolTimeoutSeconds) * time.Second
	}
	return time.Duration(c.Tools.TimeoutSeconds) * time.Second
}

// HardCutFallback reports whether a missing boundary falls back to a raw cut
// at the configured target time instead of skipping the file.
func (c *Config) HardCutFallback() bool {
	return strings.EqualFold(strings.TrimSpace(c.Split.OnMissingBoundary), OnMissingBoundaryHardCut)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
