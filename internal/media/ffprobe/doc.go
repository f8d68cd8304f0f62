// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// It has no other internal dependencies and could be extracted as a
// standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Format: container-level metadata (duration, size, format name)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns a parsed Result
package ffprobe
