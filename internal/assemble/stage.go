package assemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"episplit/internal/config"
	"episplit/internal/fileutil"
	"episplit/internal/logging"
	"episplit/internal/media"
	"episplit/internal/queue"
	"episplit/internal/services"
	"episplit/internal/stage"
)

// Stage cuts detected items into their two episode parts.
type Stage struct {
	cfg    *config.Config
	tools  media.Toolset
	logger *slog.Logger
}

// NewStage builds the assembly stage.
func NewStage(cfg *config.Config, tools media.Toolset, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		tools:  tools,
		logger: logging.NewComponentLogger(logger, "assemble"),
	}
}

// Prepare validates the boundary recorded by detection.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if item.Kind != queue.KindDouble {
		return services.Wrap(services.ErrValidation, "assemble", "prepare",
			"single-episode item does not need assembly", nil)
	}
	if item.BoundaryCut <= 0 || item.BoundaryResume < item.BoundaryCut {
		return services.Wrap(services.ErrValidation, "assemble", "prepare",
			fmt.Sprintf("unusable boundary %0.3f..%0.3f", item.BoundaryCut, item.BoundaryResume), nil)
	}
	if item.DurationSeconds > 0 && item.BoundaryResume >= item.DurationSeconds {
		return services.Wrap(services.ErrValidation, "assemble", "prepare",
			"boundary leaves no second episode", nil)
	}
	if !fileutil.PathExists(item.SourcePath) {
		return services.Wrap(services.ErrIO, "assemble", "prepare", "source file missing: "+item.SourcePath, nil)
	}
	item.SetProgress("assemble", "cutting episodes")
	return nil
}

// Execute produces both episode parts in the staging directory. Stream
// copy is attempted first; a refused copy falls back to a re-encode.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	plan := NewPlan(item.SourcePath, s.cfg.Paths.StagingDir, item.BoundaryCut, item.BoundaryResume, s.cfg.Split.IntroDuration)
	if err := fileutil.EnsureParentDir(plan.FirstPart); err != nil {
		return services.Wrap(services.ErrIO, "assemble", "execute", "create staging directory", err)
	}
	s.cleanup(plan)

	err := s.assemble(ctx, item, plan, false)
	if err != nil && errors.Is(err, services.ErrExternalTool) {
		logger.Warn("stream copy refused, re-encoding",
			logging.String(logging.FieldSourceFile, item.SourcePath),
			logging.Error(err))
		s.cleanup(plan)
		if err = s.assemble(ctx, item, plan, true); err == nil {
			item.Reencoded = true
		}
	}
	if err != nil {
		s.cleanup(plan)
		return err
	}

	item.FirstPartFile = plan.FirstPart
	item.SecondPartFile = plan.SecondPart
	item.SetProgress("assemble", "episodes cut")
	logger.Info("episodes assembled",
		logging.String(logging.FieldSourceFile, item.SourcePath),
		logging.Bool("reencoded", item.Reencoded),
		logging.Bool("hard_cut", item.HardCut))
	return nil
}

func (s *Stage) assemble(ctx context.Context, item *queue.Item, plan Plan, reencode bool) error {
	// First episode: everything before the cut.
	err := s.tools.Extract(ctx, media.ExtractRequest{
		Source:   item.SourcePath,
		Output:   plan.FirstPart,
		Start:    0,
		End:      plan.FirstEnd,
		Reencode: reencode,
	})
	if err != nil {
		return err
	}

	if !plan.ReattachIntro() {
		// Second episode is just the tail.
		return s.tools.Extract(ctx, media.ExtractRequest{
			Source:   item.SourcePath,
			Output:   plan.SecondPart,
			Start:    plan.SecondStart,
			Reencode: reencode,
		})
	}

	err = s.tools.Extract(ctx, media.ExtractRequest{
		Source:   item.SourcePath,
		Output:   plan.introFile,
		Start:    0,
		End:      plan.introEnd(reencode),
		Reencode: reencode,
	})
	if err != nil {
		return err
	}
	err = s.tools.Extract(ctx, media.ExtractRequest{
		Source:   item.SourcePath,
		Output:   plan.tailFile,
		Start:    plan.SecondStart,
		Reencode: reencode,
	})
	if err != nil {
		return err
	}
	err = s.tools.Concat(ctx, media.ConcatRequest{
		Inputs:   []string{plan.introFile, plan.tailFile},
		Output:   plan.SecondPart,
		Reencode: reencode,
	})
	if err != nil {
		return err
	}

	_ = os.Remove(plan.introFile)
	_ = os.Remove(plan.tailFile)
	return nil
}

// cleanup removes stale staging artifacts from earlier attempts.
func (s *Stage) cleanup(plan Plan) {
	for _, path := range []string{plan.FirstPart, plan.SecondPart, plan.introFile, plan.tailFile} {
		_ = os.Remove(path)
	}
}

// HealthCheck verifies the staging directory is configured.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if s.cfg.Paths.StagingDir == "" {
		return stage.Unhealthy("assemble", "staging directory not configured")
	}
	return stage.Healthy("assemble")
}
