package workflow

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"episplit/internal/assemble"
	"episplit/internal/catalog"
	"episplit/internal/config"
	"episplit/internal/detect"
	"episplit/internal/logging"
	"episplit/internal/matching"
	"episplit/internal/media"
	"episplit/internal/queue"
	"episplit/internal/report"
	"episplit/internal/services"
	"episplit/internal/stage"
	"episplit/internal/staging"
)

// staleStagingAge bounds how long interrupted-run intermediates survive
// in the staging directory before a later run reclaims them.
const staleStagingAge = 24 * time.Hour

// binding connects a ready status to the stage that consumes it.
type binding struct {
	handler    stage.Handler
	processing queue.Status
	done       queue.Status
}

// Runner drives queue items through the pipeline stages.
type Runner struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger

	order    []queue.Status
	bindings map[queue.Status]binding
}

// NewRunner wires the three pipeline stages around the shared toolset
// and catalog.
func NewRunner(cfg *config.Config, store *queue.Store, tools media.Toolset, cat *catalog.Catalog, logger *slog.Logger) *Runner {
	detectStage := detect.NewStage(cfg, tools, logger)
	assembleStage := assemble.NewStage(cfg, tools, logger)
	matchStage := matching.NewStage(cfg, cat, logger)

	return &Runner{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "workflow"),
		order:  []queue.Status{queue.StatusPending, queue.StatusDetected, queue.StatusAssembled},
		bindings: map[queue.Status]binding{
			queue.StatusPending:   {handler: detectStage, processing: queue.StatusDetecting, done: queue.StatusDetected},
			queue.StatusDetected:  {handler: assembleStage, processing: queue.StatusAssembling, done: queue.StatusAssembled},
			queue.StatusAssembled: {handler: matchStage, processing: queue.StatusMatching, done: queue.StatusCompleted},
		},
	}
}

// HealthCheck reports the readiness of every stage in pipeline order.
func (r *Runner) HealthCheck(ctx context.Context) []stage.Health {
	var checks []stage.Health
	for _, status := range r.order {
		checks = append(checks, r.bindings[status].handler.HealthCheck(ctx))
	}
	return checks
}

// Run discovers input files, processes them, and returns the run
// report. Per-file failures are recorded in the report, not returned as
// an error; the error return covers run-level problems only.
func (r *Runner) Run(ctx context.Context) (report.Report, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldCorrelationID, runID))

	lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "episplit.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return report.Report{}, services.Wrap(services.ErrIO, "workflow", "lock", "acquire run lock", err)
	}
	if !locked {
		return report.Report{}, services.Wrap(services.ErrValidation, "workflow", "lock", "another run is in progress", nil)
	}
	defer func() { _ = lock.Unlock() }()

	if _, err := r.store.ResetStuckProcessing(ctx); err != nil {
		return report.Report{}, err
	}
	if cleaned := staging.CleanStale(r.cfg.Paths.StagingDir, staleStagingAge, logger); len(cleaned.Removed) > 0 {
		logger.Info("reclaimed stale staging files", logging.Int("removed", len(cleaned.Removed)))
	}

	items, err := r.enqueue(ctx, runID, logger)
	if err != nil {
		return report.Report{}, err
	}
	logger.Info("run started",
		logging.String("input_dir", r.cfg.Paths.InputDir),
		logging.Int("files", len(items)),
		logging.Int("workers", r.cfg.Workflow.Workers))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.Workflow.Workers)
	for _, item := range items {
		item := item
		group.Go(func() error {
			return r.processItem(groupCtx, item, logger)
		})
	}
	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return report.Report{}, err
	}

	finished := time.Now().UTC()
	final, err := r.store.ItemsForRun(ctx, runID)
	if err != nil {
		return report.Report{}, err
	}
	rep := report.FromItems(runID, final, started, finished)
	logger.Info("run finished",
		logging.Int("split", rep.Split),
		logging.Int("copied", rep.Copied),
		logging.Int("no_boundary", rep.NoBoundary),
		logging.Int("failed", rep.Failed),
		logging.Int("pending", rep.Pending),
		logging.Duration("elapsed", finished.Sub(started)))
	return rep, ctx.Err()
}

// enqueue registers every discovered source file as a queue item. Files
// whose names carry no episode identity are enqueued pre-failed so they
// show up in the report.
func (r *Runner) enqueue(ctx context.Context, runID string, logger *slog.Logger) ([]*queue.Item, error) {
	sources, err := DiscoverSources(r.cfg)
	if err != nil {
		return nil, err
	}

	var items []*queue.Item
	for _, source := range sources {
		kind := queue.KindDouble
		parsed, parseErr := matching.ParseFilename(source)
		if parseErr == nil && !parsed.IsDouble() {
			kind = queue.KindSingle
		}

		item, err := r.store.NewItem(ctx, runID, source, kind)
		if err != nil {
			return nil, err
		}
		if parseErr != nil {
			item.SetFailed(services.ErrorKind(parseErr), parseErr.Error())
			if err := r.store.Update(ctx, item); err != nil {
				return nil, err
			}
			logger.Warn("unrecognized filename",
				logging.String(logging.FieldSourceFile, source),
				logging.Error(parseErr))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// processItem drives a single item through its remaining stages.
func (r *Runner) processItem(ctx context.Context, item *queue.Item, logger *slog.Logger) error {
	itemCtx := services.WithItemID(ctx, item.ID)
	for {
		if ctx.Err() != nil {
			return nil
		}
		bind, ok := r.bindings[item.Status]
		if !ok {
			return nil
		}

		stageCtx := services.WithStage(itemCtx, string(bind.processing))
		item.Status = bind.processing
		if err := r.store.Update(stageCtx, item); err != nil {
			return err
		}

		err := bind.handler.Prepare(stageCtx, item)
		if err == nil {
			err = bind.handler.Execute(stageCtx, item)
		}
		if err != nil {
			item.SetFailed(services.ErrorKind(err), err.Error())
			if updateErr := r.store.Update(stageCtx, item); updateErr != nil {
				return updateErr
			}
			logging.WithContext(stageCtx, logger).Error("stage failed",
				logging.String(logging.FieldSourceFile, item.SourcePath),
				logging.String("error_kind", item.ErrorKind),
				logging.Error(err))
			return nil
		}

		item.Status = bind.done
		if err := r.store.Update(stageCtx, item); err != nil {
			return err
		}
	}
}
