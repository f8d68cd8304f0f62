package matching

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"

	"episplit/internal/catalog"
	"episplit/internal/config"
	"episplit/internal/fileutil"
	"episplit/internal/logging"
	"episplit/internal/queue"
	"episplit/internal/services"
	"episplit/internal/stage"
)

// Resolution is the persisted outcome of matching one source file.
type Resolution struct {
	Show   string `json:"show"`
	First  Match  `json:"first"`
	Second *Match `json:"second,omitempty"`
}

// Stage resolves episode identities and places final outputs.
type Stage struct {
	cfg     *config.Config
	matcher *Matcher
	logger  *slog.Logger
}

// NewStage builds the matching stage around a loaded catalog.
func NewStage(cfg *config.Config, cat *catalog.Catalog, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:     cfg,
		matcher: NewMatcher(cat, cfg.Matching.FuzzyThreshold),
		logger:  logging.NewComponentLogger(logger, "match"),
	}
}

// Prepare verifies the assembled parts are present.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if item.FirstPartFile == "" {
		return services.Wrap(services.ErrValidation, "match", "prepare", "no assembled part recorded", nil)
	}
	if !fileutil.PathExists(item.FirstPartFile) {
		return services.Wrap(services.ErrIO, "match", "prepare", "assembled part missing: "+item.FirstPartFile, nil)
	}
	if item.Kind == queue.KindDouble {
		if item.SecondPartFile == "" || !fileutil.PathExists(item.SecondPartFile) {
			return services.Wrap(services.ErrIO, "match", "prepare", "second assembled part missing", nil)
		}
	}
	item.SetProgress("match", "resolving episode identities")
	return nil
}

// Execute resolves identities for the item's episodes and moves the
// assembled parts into the output directory under their final names.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	parsed, err := ParseFilename(item.SourcePath)
	if err != nil {
		return err
	}

	first, err := s.matcher.Resolve(parsed.Season, parsed.FirstEpisode, parsed.FirstTitle)
	if err != nil {
		return err
	}
	resolution := Resolution{Show: parsed.Show, First: first}

	if item.Kind == queue.KindDouble {
		second, err := s.matcher.Resolve(parsed.Season, parsed.SecondEpisode, parsed.SecondTitle)
		if err != nil {
			return err
		}
		resolution.Second = &second
	}

	firstOutput := filepath.Join(s.cfg.Paths.OutputDir, OutputName(parsed.Show, resolution.First.Record, parsed.Ext))
	if err := s.place(item, item.FirstPartFile, firstOutput); err != nil {
		return err
	}
	item.FirstOutputFile = firstOutput
	logger.Info("placed episode",
		logging.String(logging.FieldSourceFile, item.SourcePath),
		logging.String("output", firstOutput),
		logging.Bool("fallback", resolution.First.Fallback))

	if resolution.Second != nil {
		secondOutput := filepath.Join(s.cfg.Paths.OutputDir, OutputName(parsed.Show, resolution.Second.Record, parsed.Ext))
		if err := s.place(item, item.SecondPartFile, secondOutput); err != nil {
			return err
		}
		item.SecondOutputFile = secondOutput
		logger.Info("placed episode",
			logging.String(logging.FieldSourceFile, item.SourcePath),
			logging.String("output", secondOutput),
			logging.Bool("fallback", resolution.Second.Fallback))
	}

	payload, err := json.Marshal(resolution)
	if err != nil {
		return services.Wrap(services.ErrValidation, "match", "execute", "encode resolution", err)
	}
	item.MatchJSON = string(payload)
	item.SetProgress("match", "outputs placed")
	return nil
}

// place moves an assembled part to its final path. Single-episode items
// keep their source file intact, so the part is copied instead of moved.
func (s *Stage) place(item *queue.Item, src, dst string) error {
	if fileutil.PathExists(dst) && !s.cfg.Split.OverwriteOutputs {
		return services.Wrap(services.ErrIO, "match", "place",
			"output already exists: "+dst, nil)
	}
	if err := fileutil.EnsureParentDir(dst); err != nil {
		return services.Wrap(services.ErrIO, "match", "place", "create output directory", err)
	}
	if item.Kind == queue.KindSingle {
		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			return services.Wrap(services.ErrIO, "match", "place", "copy episode to output", err)
		}
		return nil
	}
	if err := fileutil.MoveFile(src, dst); err != nil {
		return services.Wrap(services.ErrIO, "match", "place", "move episode to output", err)
	}
	return nil
}

// HealthCheck verifies the output directory is available.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if s.cfg.Paths.OutputDir == "" {
		return stage.Unhealthy("match", "output directory not configured")
	}
	return stage.Healthy("match")
}
