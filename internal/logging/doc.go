// Package logging centralizes slog construction and the structured field
// conventions used across the pipeline.
//
// It provides console and JSON handlers, multi-destination output (stdout plus
// a per-run log file), attribute helpers, and context-derived fields so every
// log line from a stage carries the run item ID, stage name, and correlation
// identifier.
package logging
