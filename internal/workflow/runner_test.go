package workflow

import (
	"context"
	"path/filepath"
	"testing"

	"episplit/internal/catalog"
	"episplit/internal/config"
	"episplit/internal/logging"
	"episplit/internal/media"
	"episplit/internal/queue"
	"episplit/internal/report"
	"episplit/internal/testsupport"
)

func runnerCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.EpisodeRecord{
		{Season: 1, Episode: 1, Title: "Pilot"},
		{Season: 1, Episode: 2, Title: "The Letter"},
		{Season: 1, Episode: 3, Title: "Long Weekend"},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func TestRunProcessesMixedInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	tools := &testsupport.FakeToolset{
		Duration: 1420,
		Runs:     []media.BlackRun{{Start: 708.2, End: 708.9, Duration: 0.7}},
	}

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "My Show - S01E01-02 - Pilot + The Letter.mkv"), "double")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "My Show - S01E03 - Long Weekend.mkv"), "single")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "holiday_footage.mkv"), "unrecognized")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "notes.txt"), "ignored")

	runner := NewRunner(cfg, store, tools, runnerCatalog(t), logging.NewNop())
	rep, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.Split != 1 || rep.Copied != 1 || rep.Failed != 1 || rep.Pending != 0 {
		t.Fatalf("report = %+v", rep)
	}

	for _, want := range []string{
		"My Show - S01E01 - Pilot.mkv",
		"My Show - S01E02 - The Letter.mkv",
		"My Show - S01E03 - Long Weekend.mkv",
	} {
		path := filepath.Join(cfg.Paths.OutputDir, want)
		if testsupport.ReadFile(t, path) == "" {
			t.Fatalf("output %s empty", want)
		}
	}

	var unrecognized *report.Entry
	for i := range rep.Entries {
		if filepath.Base(rep.Entries[i].Source) == "holiday_footage.mkv" {
			unrecognized = &rep.Entries[i]
		}
	}
	if unrecognized == nil || unrecognized.ErrorKind != "unrecognized_format" {
		t.Fatalf("unrecognized entry = %+v", unrecognized)
	}
}

func TestRunNoBoundarySkipPolicy(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOnMissingBoundary(config.OnMissingBoundarySkip))
	store := testsupport.MustOpenStore(t, cfg)
	tools := &testsupport.FakeToolset{Duration: 1420}

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "My Show - S01E01-02 - Pilot + The Letter.mkv"), "double")

	runner := NewRunner(cfg, store, tools, runnerCatalog(t), logging.NewNop())
	rep, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.NoBoundary != 1 || rep.Split != 0 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Succeeded() {
		t.Fatal("skipped file should not count as success")
	}
}

func TestRunHardCutPolicy(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOnMissingBoundary(config.OnMissingBoundaryHardCut))
	store := testsupport.MustOpenStore(t, cfg)
	tools := &testsupport.FakeToolset{Duration: 1420}

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "My Show - S01E01-02 - Pilot + The Letter.mkv"), "double")

	runner := NewRunner(cfg, store, tools, runnerCatalog(t), logging.NewNop())
	rep, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Split != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if !rep.Entries[0].HardCut {
		t.Fatalf("entry = %+v", rep.Entries[0])
	}
}

func TestRunIsolatesToolFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	tools := &testsupport.FakeToolset{
		Duration: 1420,
		Runs:     []media.BlackRun{{Start: 708.2, End: 708.9, Duration: 0.7}},
		// Stream copy and the reencode fallback both fail.
		ExtractErr: &media.ToolError{Tool: "ffmpeg", ExitCode: 1, Output: "broken container"},
	}

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "My Show - S01E01-02 - Pilot + The Letter.mkv"), "double")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "My Show - S01E03 - Long Weekend.mkv"), "single")

	runner := NewRunner(cfg, store, tools, runnerCatalog(t), logging.NewNop())
	rep, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Failed != 1 || rep.Copied != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestRunHealthCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := NewRunner(cfg, store, &testsupport.FakeToolset{}, runnerCatalog(t), logging.NewNop())

	checks := runner.HealthCheck(context.Background())
	if len(checks) != 3 {
		t.Fatalf("checks = %+v", checks)
	}
	for _, check := range checks {
		if !check.Ready {
			t.Fatalf("stage %s unhealthy: %s", check.Name, check.Detail)
		}
	}
}

func TestDiscoverSourcesFiltersAndSorts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "b.mkv"), "b")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "a.MP4"), "a")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "readme.md"), "x")

	sources, err := DiscoverSources(cfg)
	if err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %v", sources)
	}
	if filepath.Base(sources[0]) != "a.MP4" || filepath.Base(sources[1]) != "b.mkv" {
		t.Fatalf("sources = %v", sources)
	}
}

func TestRunLeavesQueueTerminal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	tools := &testsupport.FakeToolset{
		Duration: 1420,
		Runs:     []media.BlackRun{{Start: 708.2, End: 708.9, Duration: 0.7}},
	}
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "My Show - S01E01-02 - Pilot + The Letter.mkv"), "double")

	runner := NewRunner(cfg, store, tools, runnerCatalog(t), logging.NewNop())
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	health, err := store.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Processing != 0 || health.Pending != 0 {
		t.Fatalf("health = %+v", health)
	}
	items, err := store.List(context.Background(), queue.StatusCompleted)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("completed = %d", len(items))
	}
}
