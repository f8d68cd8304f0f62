package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSplit() error {
	if c.Split.IntroDuration < 0 {
		return errors.New("split.intro_duration must not be negative")
	}
	if c.Split.TargetTime < 0 {
		return errors.New("split.target_time must not be negative")
	}
	if c.Split.DarknessThreshold < 0 || c.Split.DarknessThreshold > 1 {
		return errors.New("split.darkness_threshold must be between 0 and 1")
	}
	if c.Split.MinBlackDuration <= 0 {
		return errors.New("split.min_black_duration must be positive")
	}
	if c.Split.MaxBlackDuration < c.Split.MinBlackDuration {
		return errors.New("split.max_black_duration must not be below split.min_black_duration")
	}
	switch c.Split.OnMissingBoundary {
	case OnMissingBoundarySkip, OnMissingBoundaryHardCut:
	default:
		return fmt.Errorf("split.on_missing_boundary must be %q or %q", OnMissingBoundarySkip, OnMissingBoundaryHardCut)
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 1 {
		return errors.New("matching.fuzzy_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.FFmpegBinary() == "" {
		return errors.New("tools.ffmpeg must be set")
	}
	if c.FFprobeBinary() == "" {
		return errors.New("tools.ffprobe must be set")
	}
	if c.Tools.TimeoutSeconds < 0 {
		return errors.New("tools.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	return nil
}
