package assemble

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"episplit/internal/config"
	"episplit/internal/logging"
	"episplit/internal/queue"
	"episplit/internal/services"
	"episplit/internal/testsupport"
)

func newDetectedItem(t *testing.T, cfg *config.Config) *queue.Item {
	t.Helper()
	source := filepath.Join(cfg.Paths.InputDir, "Show - S01E01-02 - A + B.mkv")
	testsupport.WriteFile(t, source, "video payload")
	return &queue.Item{
		ID:              7,
		SourcePath:      source,
		Kind:            queue.KindDouble,
		Status:          queue.StatusAssembling,
		DurationSeconds: 1420,
		BoundaryCut:     708.2,
		BoundaryResume:  708.9,
		Confidence:      0.9,
	}
}

func TestStageExecuteLossless(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tools := &testsupport.FakeToolset{Duration: 1420}
	st := NewStage(cfg, tools, logging.NewNop())
	item := newDetectedItem(t, cfg)

	if err := st.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if item.Reencoded {
		t.Fatal("lossless path should not set reencoded")
	}
	if !strings.HasSuffix(item.FirstPartFile, "_part1.mkv") || !strings.HasSuffix(item.SecondPartFile, "_part2.mkv") {
		t.Fatalf("parts = %q, %q", item.FirstPartFile, item.SecondPartFile)
	}

	// part1 [0, cut), intro [0, intro), tail [resume, eof), concat.
	if len(tools.ExtractCalls) != 3 {
		t.Fatalf("extract calls = %d", len(tools.ExtractCalls))
	}
	first := tools.ExtractCalls[0]
	if first.Start != 0 || first.End != 708.2 || first.Reencode {
		t.Fatalf("first extract = %+v", first)
	}
	intro := tools.ExtractCalls[1]
	if intro.End != cfg.Split.IntroDuration {
		t.Fatalf("lossless intro end = %v", intro.End)
	}
	tail := tools.ExtractCalls[2]
	if tail.Start != 708.9 || tail.End != 0 {
		t.Fatalf("tail extract = %+v", tail)
	}
	if len(tools.ConcatCalls) != 1 || tools.ConcatCalls[0].Reencode {
		t.Fatalf("concat calls = %+v", tools.ConcatCalls)
	}

	// Intermediates are cleaned up, parts remain.
	content := testsupport.ReadFile(t, item.SecondPartFile)
	if content == "" {
		t.Fatal("second part empty")
	}
}

func TestStageExecuteFallsBackToReencode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tools := &testsupport.FakeToolset{Duration: 1420, StreamCopyFails: true}
	st := NewStage(cfg, tools, logging.NewNop())
	item := newDetectedItem(t, cfg)

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !item.Reencoded {
		t.Fatal("expected reencoded flag")
	}

	// The re-encoded intro is trimmed.
	var introEnds []float64
	for _, call := range tools.ExtractCalls {
		if call.Reencode && call.Start == 0 && call.End != 708.2 {
			introEnds = append(introEnds, call.End)
		}
	}
	want := cfg.Split.IntroDuration - 0.5
	found := false
	for _, end := range introEnds {
		if end == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("no trimmed intro extract, ends = %v", introEnds)
	}
}

func TestStageExecuteHardCutBoundary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tools := &testsupport.FakeToolset{Duration: 1420}
	st := NewStage(cfg, tools, logging.NewNop())
	item := newDetectedItem(t, cfg)
	item.BoundaryCut = 710
	item.BoundaryResume = 710
	item.HardCut = true

	if err := st.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if tools.ExtractCalls[0].End != 710 {
		t.Fatalf("first end = %v", tools.ExtractCalls[0].End)
	}
}

func TestStageExecuteWithoutIntroReattachment(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Split.IntroDuration = 0
	tools := &testsupport.FakeToolset{Duration: 1420}
	st := NewStage(cfg, tools, logging.NewNop())
	item := newDetectedItem(t, cfg)

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(tools.ExtractCalls) != 2 || len(tools.ConcatCalls) != 0 {
		t.Fatalf("calls = %d extracts, %d concats", len(tools.ExtractCalls), len(tools.ConcatCalls))
	}
	second := tools.ExtractCalls[1]
	if second.Start != 708.9 {
		t.Fatalf("second extract = %+v", second)
	}
}

func TestStagePrepareRejectsBadBoundary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := NewStage(cfg, &testsupport.FakeToolset{}, logging.NewNop())
	item := newDetectedItem(t, cfg)
	item.BoundaryCut = 0

	err := st.Prepare(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestStagePrepareRejectsSingleItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := NewStage(cfg, &testsupport.FakeToolset{}, logging.NewNop())
	item := newDetectedItem(t, cfg)
	item.Kind = queue.KindSingle

	err := st.Prepare(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
