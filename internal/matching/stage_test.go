package matching

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"episplit/internal/catalog"
	"episplit/internal/config"
	"episplit/internal/logging"
	"episplit/internal/queue"
	"episplit/internal/services"
	"episplit/internal/testsupport"
)

func stageCatalog(t *testing.T) *catalog.Catalog {
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

func assembledDouble(t *testing.T, cfg *config.Config) *queue.Item {
	t.Helper()
	source := filepath.Join(cfg.Paths.InputDir, "My Show - S01E01-02 - Pilot + The Letter.mkv")
	testsupport.WriteFile(t, source, "source payload")
	part1 := filepath.Join(cfg.Paths.StagingDir, "part1.mkv")
	part2 := filepath.Join(cfg.Paths.StagingDir, "part2.mkv")
	testsupport.WriteFile(t, part1, "first episode")
	testsupport.WriteFile(t, part2, "second episode")
	return &queue.Item{
		ID:             3,
		SourcePath:     source,
		Kind:           queue.KindDouble,
		Status:         queue.StatusMatching,
		FirstPartFile:  part1,
		SecondPartFile: part2,
	}
}

func TestStageExecutePlacesBothEpisodes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := NewStage(cfg, stageCatalog(t), logging.NewNop())
	item := assembledDouble(t, cfg)

	if err := st.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	wantFirst := filepath.Join(cfg.Paths.OutputDir, "My Show - S01E01 - Pilot.mkv")
	wantSecond := filepath.Join(cfg.Paths.OutputDir, "My Show - S01E02 - The Letter.mkv")
	if item.FirstOutputFile != wantFirst || item.SecondOutputFile != wantSecond {
		t.Fatalf("outputs = %q, %q", item.FirstOutputFile, item.SecondOutputFile)
	}
	if testsupport.ReadFile(t, wantFirst) != "first episode" {
		t.Fatal("first output content wrong")
	}
	if testsupport.ReadFile(t, wantSecond) != "second episode" {
		t.Fatal("second output content wrong")
	}

	var resolution Resolution
	if err := json.Unmarshal([]byte(item.MatchJSON), &resolution); err != nil {
		t.Fatalf("unmarshal resolution: %v", err)
	}
	if resolution.Show != "My Show" || resolution.Second == nil {
		t.Fatalf("resolution = %+v", resolution)
	}
	if resolution.First.Record.Episode != 1 || resolution.Second.Record.Episode != 2 {
		t.Fatalf("resolution = %+v", resolution)
	}
}

func TestStageExecuteSingleCopiesSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := NewStage(cfg, stageCatalog(t), logging.NewNop())

	source := filepath.Join(cfg.Paths.InputDir, "My Show - S01E03 - Long Weekend.mkv")
	testsupport.WriteFile(t, source, "single episode")
	item := &queue.Item{
		ID:            4,
		SourcePath:    source,
		Kind:          queue.KindSingle,
		Status:        queue.StatusMatching,
		FirstPartFile: source,
	}

	if err := st.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := filepath.Join(cfg.Paths.OutputDir, "My Show - S01E03 - Long Weekend.mkv")
	if item.FirstOutputFile != want {
		t.Fatalf("output = %q", item.FirstOutputFile)
	}
	// The source stays in place for single-episode items.
	if testsupport.ReadFile(t, source) != "single episode" {
		t.Fatal("source modified")
	}
	if testsupport.ReadFile(t, want) != "single episode" {
		t.Fatal("output content wrong")
	}
	if item.SecondOutputFile != "" {
		t.Fatalf("unexpected second output %q", item.SecondOutputFile)
	}
}

func TestStageExecuteFallbackNaming(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	empty, err := catalog.New(nil)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	st := NewStage(cfg, empty, logging.NewNop())
	item := assembledDouble(t, cfg)

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	wantFirst := filepath.Join(cfg.Paths.OutputDir, "My Show - S01E01 - Pilot.mkv")
	if item.FirstOutputFile != wantFirst {
		t.Fatalf("output = %q", item.FirstOutputFile)
	}

	var resolution Resolution
	if err := json.Unmarshal([]byte(item.MatchJSON), &resolution); err != nil {
		t.Fatalf("unmarshal resolution: %v", err)
	}
	if !resolution.First.Fallback || !resolution.Second.Fallback {
		t.Fatalf("expected fallback identities: %+v", resolution)
	}
}

func TestStageExecuteRefusesToOverwrite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := NewStage(cfg, stageCatalog(t), logging.NewNop())
	item := assembledDouble(t, cfg)

	existing := filepath.Join(cfg.Paths.OutputDir, "My Show - S01E01 - Pilot.mkv")
	testsupport.WriteFile(t, existing, "already there")

	err := st.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("error = %v, want ErrIO", err)
	}
	if testsupport.ReadFile(t, existing) != "already there" {
		t.Fatal("existing output clobbered")
	}
}

func TestStageExecuteOverwritesWhenConfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOverwriteOutputs())
	st := NewStage(cfg, stageCatalog(t), logging.NewNop())
	item := assembledDouble(t, cfg)

	existing := filepath.Join(cfg.Paths.OutputDir, "My Show - S01E01 - Pilot.mkv")
	testsupport.WriteFile(t, existing, "stale")

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if testsupport.ReadFile(t, existing) != "first episode" {
		t.Fatal("output not replaced")
	}
}

func TestStagePrepareMissingParts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := NewStage(cfg, stageCatalog(t), logging.NewNop())
	item := assembledDouble(t, cfg)
	item.SecondPartFile = filepath.Join(cfg.Paths.StagingDir, "gone.mkv")

	err := st.Prepare(context.Background(), item)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("error = %v, want ErrIO", err)
	}
}
