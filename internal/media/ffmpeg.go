package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"episplit/internal/logging"
	"episplit/internal/media/ffprobe"
	"episplit/internal/services"
)

// pictureThreshold is the fraction of pixels that must be below the pixel
// threshold for a frame to count as black.
const pictureThreshold = 0.95

// FFmpegToolset implements Toolset with the ffmpeg and ffprobe binaries.
type FFmpegToolset struct {
	ffmpegBin  string
	ffprobeBin string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewFFmpegToolset builds a toolset around the given binaries. timeout
// bounds each invocation; zero disables the bound.
func NewFFmpegToolset(ffmpegBin, ffprobeBin string, timeout time.Duration, logger *slog.Logger) *FFmpegToolset {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FFmpegToolset{
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		timeout:    timeout,
		logger:     logging.NewComponentLogger(logger, "media"),
	}
}

// Probe inspects path with ffprobe.
func (t *FFmpegToolset) Probe(ctx context.Context, path string) (Info, error) {
	runCtx, cancel := t.bound(ctx)
	defer cancel()

	result, err := ffprobe.Inspect(runCtx, t.ffprobeBin, path)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return Info{}, services.Wrap(services.ErrTimeout, "media", "probe",
				fmt.Sprintf("ffprobe timed out after %s", t.timeout), runCtx.Err())
		}
		return Info{}, services.Wrap(services.ErrExternalTool, "media", "probe", "inspect media file", err)
	}
	duration, _ := result.DurationSeconds()
	return Info{
		Path:            path,
		DurationSeconds: duration,
		SizeBytes:       result.SizeBytes(),
		VideoStreams:    result.VideoStreamCount(),
		AudioStreams:    result.AudioStreamCount(),
		FormatName:      result.Format.FormatName,
	}, nil
}

// DetectBlackRuns scans the window of path for black frame runs.
func (t *FFmpegToolset) DetectBlackRuns(ctx context.Context, path string, window Window, params BlackdetectParams) ([]BlackRun, error) {
	args := []string{"-hide_banner", "-nostats", "-nostdin"}
	if window.Start > 0 {
		args = append(args, "-ss", formatSeconds(window.Start))
	}
	if window.Length > 0 {
		args = append(args, "-t", formatSeconds(window.Length))
	}
	filter := fmt.Sprintf("blackdetect=d=%s:pix_th=%s:pic_th=%s",
		formatSeconds(params.MinDuration),
		formatSeconds(params.PixelThreshold),
		formatSeconds(pictureThreshold))
	args = append(args, "-i", path, "-vf", filter, "-an", "-f", "null", "-")

	output, err := t.run(ctx, "ffmpeg", "blackdetect", t.ffmpegBin, args)
	if err != nil {
		return nil, err
	}
	offset := 0.0
	if window.Start > 0 {
		offset = window.Start
	}
	return ParseBlackdetect(output, offset), nil
}

// Extract cuts a segment from req.Source into req.Output.
func (t *FFmpegToolset) Extract(ctx context.Context, req ExtractRequest) error {
	args := []string{"-hide_banner", "-nostats", "-nostdin", "-y", "-i", req.Source}
	if req.Start > 0 {
		args = append(args, "-ss", formatSeconds(req.Start))
	}
	if req.End > 0 {
		args = append(args, "-to", formatSeconds(req.End))
	}
	if req.Reencode {
		args = append(args, "-c:v", "libx264", "-c:a", "aac")
	} else {
		args = append(args, "-c", "copy", "-avoid_negative_ts", "make_zero")
	}
	args = append(args, req.Output)

	_, err := t.run(ctx, "ffmpeg", "extract", t.ffmpegBin, args)
	return err
}

// Concat joins req.Inputs in order into req.Output using the concat
// demuxer.
func (t *FFmpegToolset) Concat(ctx context.Context, req ConcatRequest) error {
	if len(req.Inputs) == 0 {
		return services.Wrap(services.ErrValidation, "media", "concat", "no inputs to join", nil)
	}
	listPath := req.Output + ".concat.txt"
	if err := writeConcatList(listPath, req.Inputs); err != nil {
		return services.Wrap(services.ErrIO, "media", "concat", "write concat list", err)
	}
	defer os.Remove(listPath)

	args := []string{"-hide_banner", "-nostats", "-nostdin", "-y", "-f", "concat", "-safe", "0", "-i", listPath}
	if req.Reencode {
		args = append(args, "-c:v", "libx264", "-c:a", "aac")
	} else {
		args = append(args, "-c", "copy")
	}
	args = append(args, req.Output)

	_, err := t.run(ctx, "ffmpeg", "concat", t.ffmpegBin, args)
	return err
}

func (t *FFmpegToolset) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout > 0 {
		return context.WithTimeout(ctx, t.timeout)
	}
	return context.WithCancel(ctx)
}

func (t *FFmpegToolset) run(ctx context.Context, tool, operation, binary string, args []string) (string, error) {
	runCtx, cancel := t.bound(ctx)
	defer cancel()

	t.logger.Debug("running external tool",
		logging.String("tool", tool),
		logging.String("args", strings.Join(args, " ")))

	cmd := exec.CommandContext(runCtx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return string(output), services.Wrap(services.ErrTimeout, "media", operation,
				fmt.Sprintf("%s timed out after %s", tool, t.timeout), runCtx.Err())
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		toolErr := &ToolError{Tool: tool, ExitCode: exitCode, Output: string(output)}
		return string(output), services.Wrap(services.ErrExternalTool, "media", operation, tool+" invocation failed", toolErr)
	}
	return string(output), nil
}

// writeConcatList renders inputs in ffmpeg concat demuxer syntax. Single
// quotes in paths are escaped per the demuxer's quoting rules.
func writeConcatList(path string, inputs []string) error {
	var b strings.Builder
	for _, input := range inputs {
		escaped := strings.ReplaceAll(input, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
