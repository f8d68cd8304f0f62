package testsupport

import (
	"context"
	"fmt"
	"os"
	"sync"

	"episplit/internal/media"
	"episplit/internal/services"
)

// FakeToolset implements media.Toolset without invoking any binaries.
// Extract and Concat write real files so downstream stages can move
// them around.
type FakeToolset struct {
	mu sync.Mutex

	// Duration is reported by Probe.
	Duration float64
	// Runs are the black runs DetectBlackRuns reports, filtered to the
	// requested window.
	Runs []media.BlackRun

	ProbeErr  error
	DetectErr error
	// StreamCopyFails makes non-reencode Extract and Concat calls fail,
	// exercising the reencode fallback.
	StreamCopyFails bool
	ExtractErr      error
	ConcatErr       error

	ProbeCalls   []string
	DetectCalls  []media.Window
	ExtractCalls []media.ExtractRequest
	ConcatCalls  []media.ConcatRequest
}

var _ media.Toolset = (*FakeToolset)(nil)

func (f *FakeToolset) Probe(ctx context.Context, path string) (media.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProbeCalls = append(f.ProbeCalls, path)
	if f.ProbeErr != nil {
		return media.Info{}, f.ProbeErr
	}
	return media.Info{
		Path:            path,
		DurationSeconds: f.Duration,
		VideoStreams:    1,
		AudioStreams:    1,
		FormatName:      "matroska",
	}, nil
}

func (f *FakeToolset) DetectBlackRuns(ctx context.Context, path string, window media.Window, params media.BlackdetectParams) ([]media.BlackRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DetectCalls = append(f.DetectCalls, window)
	if f.DetectErr != nil {
		return nil, f.DetectErr
	}
	var runs []media.BlackRun
	for _, run := range f.Runs {
		if run.Start >= window.Start && run.Start < window.End() {
			runs = append(runs, run)
		}
	}
	return runs, nil
}

func (f *FakeToolset) Extract(ctx context.Context, req media.ExtractRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ExtractCalls = append(f.ExtractCalls, req)
	if f.ExtractErr != nil {
		return f.ExtractErr
	}
	if f.StreamCopyFails && !req.Reencode {
		return services.Wrap(services.ErrExternalTool, "media", "extract", "stream copy failed",
			&media.ToolError{Tool: "ffmpeg", ExitCode: 1, Output: "stream copy not possible"})
	}
	content := fmt.Sprintf("segment %s [%0.3f-%0.3f] reencode=%v\n", req.Source, req.Start, req.End, req.Reencode)
	return os.WriteFile(req.Output, []byte(content), 0o644)
}

func (f *FakeToolset) Concat(ctx context.Context, req media.ConcatRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ConcatCalls = append(f.ConcatCalls, req)
	if f.ConcatErr != nil {
		return f.ConcatErr
	}
	if f.StreamCopyFails && !req.Reencode {
		return services.Wrap(services.ErrExternalTool, "media", "concat", "stream copy failed",
			&media.ToolError{Tool: "ffmpeg", ExitCode: 1, Output: "stream copy not possible"})
	}
	var content []byte
	for _, input := range req.Inputs {
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		content = append(content, data...)
	}
	return os.WriteFile(req.Output, content, 0o644)
}
