// Package config loads, normalizes, and validates episplit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and pipeline need: input/output directories, detection thresholds, the
// intro duration, fuzzy-match tuning, and external tool settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
