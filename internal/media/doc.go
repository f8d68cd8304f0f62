// Package media defines the external-tool boundary for video inspection
// and cutting.
//
// The Toolset interface is the single seam between the pipeline and the
// ffmpeg/ffprobe binaries: Probe inspects a container, DetectBlackRuns
// scans a time window for black frame runs, Extract cuts a segment, and
// Concat joins segments. FFmpegToolset is the production implementation;
// tests substitute a fake.
//
// Tool failures carry a *ToolError with the exit code and trailing output,
// wrapped with the services error markers so callers can classify them.
package media
