package media

import (
	"context"
	"fmt"
	"strings"
)

// Info summarizes a probed media container.
type Info struct {
	Path            string
	DurationSeconds float64
	SizeBytes       int64
	VideoStreams    int
	AudioStreams    int
	FormatName      string
}

// Window bounds a detection scan to [Start, Start+Length) seconds.
type Window struct {
	Start  float64
	Length float64
}

// End returns the exclusive end of the window.
func (w Window) End() float64 {
	return w.Start + w.Length
}

// BlackRun is one contiguous run of black frames, in absolute seconds
// from the start of the file.
type BlackRun struct {
	Start    float64
	End      float64
	Duration float64
}

// Midpoint returns the center of the run.
func (r BlackRun) Midpoint() float64 {
	return r.Start + (r.End-r.Start)/2
}

// BlackdetectParams tunes the black frame filter.
type BlackdetectParams struct {
	// MinDuration is the shortest run reported, in seconds.
	MinDuration float64
	// PixelThreshold is the per-pixel darkness threshold in [0, 1].
	PixelThreshold float64
}

// ExtractRequest cuts [Start, End) of Source into Output. End <= 0 means
// to the end of the file. Reencode forces a video/audio re-encode;
// otherwise streams are copied.
type ExtractRequest struct {
	Source   string
	Output   string
	Start    float64
	End      float64
	Reencode bool
}

// ConcatRequest joins Inputs in order into Output. Reencode selects
// re-encoded output; stream copy otherwise.
type ConcatRequest struct {
	Inputs   []string
	Output   string
	Reencode bool
}

// Toolset is the external-tool boundary for the pipeline. All methods
// honor context cancellation.
type Toolset interface {
	Probe(ctx context.Context, path string) (Info, error)
	DetectBlackRuns(ctx context.Context, path string, window Window, params BlackdetectParams) ([]BlackRun, error)
	Extract(ctx context.Context, req ExtractRequest) error
	Concat(ctx context.Context, req ConcatRequest) error
}

// ToolError reports a failed external tool invocation.
type ToolError struct {
	Tool     string
	ExitCode int
	Output   string
}

func (e *ToolError) Error() string {
	tail := outputTail(e.Output, 512)
	if tail == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, tail)
}

func outputTail(output string, max int) string {
	output = strings.TrimSpace(output)
	if len(output) <= max {
		return output
	}
	return "... " + output[len(output)-max:]
}
