package detect

import (
	"context"
	"fmt"
	"log/slog"

	"episplit/internal/config"
	"episplit/internal/fileutil"
	"episplit/internal/logging"
	"episplit/internal/media"
	"episplit/internal/queue"
	"episplit/internal/services"
	"episplit/internal/stage"
)

// Stage probes each source file and selects its episode boundary.
type Stage struct {
	cfg    *config.Config
	tools  media.Toolset
	logger *slog.Logger
}

// NewStage builds the detection stage.
func NewStage(cfg *config.Config, tools media.Toolset, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		tools:  tools,
		logger: logging.NewComponentLogger(logger, "detect"),
	}
}

func (s *Stage) params() Params {
	return Params{
		TargetTime:       s.cfg.Split.TargetTime,
		Margin:           s.cfg.Split.TimeMargin,
		MinBlackDuration: s.cfg.Split.MinBlackDuration,
		MaxBlackDuration: s.cfg.Split.MaxBlackDuration,
	}
}

// Prepare verifies the source file is readable.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if !fileutil.PathExists(item.SourcePath) {
		return services.Wrap(services.ErrIO, "detect", "prepare", "source file missing: "+item.SourcePath, nil)
	}
	item.SetProgress("detect", "scanning for episode boundary")
	return nil
}

// Execute probes the file, scans the detection window for black runs,
// and records the selected boundary on the item.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	info, err := s.tools.Probe(ctx, item.SourcePath)
	if err != nil {
		return err
	}
	if info.DurationSeconds <= 0 {
		return services.Wrap(services.ErrValidation, "detect", "probe",
			"container reports no duration: "+item.SourcePath, nil)
	}
	if info.VideoStreams == 0 {
		return services.Wrap(services.ErrValidation, "detect", "probe",
			"no video stream in "+item.SourcePath, nil)
	}
	item.DurationSeconds = info.DurationSeconds

	params := s.params()
	var boundary Boundary
	found := false

	window, usable := ScanWindow(params, info.DurationSeconds)
	if usable {
		runs, err := s.tools.DetectBlackRuns(ctx, item.SourcePath, window, media.BlackdetectParams{
			MinDuration:    params.MinBlackDuration,
			PixelThreshold: s.cfg.Split.DarknessThreshold,
		})
		if err != nil {
			return err
		}
		logger.Debug("scanned detection window",
			logging.String(logging.FieldSourceFile, item.SourcePath),
			logging.Float64("window_start", window.Start),
			logging.Float64("window_length", window.Length),
			logging.Int("black_runs", len(runs)))
		boundary, found = Select(runs, params)
	}

	if found && (boundary.Cut <= 0 || boundary.Resume >= info.DurationSeconds) {
		// A run flush against either edge cannot split the file.
		found = false
	}

	if !found {
		if !usable || !s.cfg.HardCutFallback() {
			return services.Wrap(services.ErrNoBoundary, "detect", "select",
				fmt.Sprintf("no transition within %gs of %gs", params.Margin, params.TargetTime), nil)
		}
		boundary = HardCutBoundary(params)
		logger.Warn("no transition found, forcing hard cut",
			logging.String(logging.FieldSourceFile, item.SourcePath),
			logging.String(logging.FieldDecisionType, "hard_cut"),
			logging.Float64("cut", boundary.Cut))
	} else {
		logger.Info("boundary selected",
			logging.String(logging.FieldSourceFile, item.SourcePath),
			logging.Float64("cut", boundary.Cut),
			logging.Float64("resume", boundary.Resume),
			logging.Float64("confidence", boundary.Confidence))
	}

	item.BoundaryCut = boundary.Cut
	item.BoundaryResume = boundary.Resume
	item.Confidence = boundary.Confidence
	item.HardCut = boundary.HardCut
	item.SetProgress("detect", "boundary selected")
	return nil
}

// HealthCheck reports detection readiness.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if s.tools == nil {
		return stage.Unhealthy("detect", "no toolset configured")
	}
	return stage.Healthy("detect")
}
