package detect

import (
	"math"
	"testing"

	"episplit/internal/media"
)

func defaultParams() Params {
	return Params{
		TargetTime:       710,
		Margin:           60,
		MinBlackDuration: 0.2,
		MaxBlackDuration: 4.0,
	}
}

func TestScanWindow(t *testing.T) {
	win, ok := ScanWindow(defaultParams(), 1420)
	if !ok {
		t.Fatal("expected window")
	}
	if win.Start != 650 || win.Length != 120 {
		t.Fatalf("window = %+v", win)
	}
}

func TestScanWindowClampsToFile(t *testing.T) {
	win, ok := ScanWindow(defaultParams(), 730)
	if !ok {
		t.Fatal("expected window")
	}
	if win.Start != 650 || win.End() != 730 {
		t.Fatalf("window = %+v", win)
	}
}

func TestScanWindowTargetOutsideFile(t *testing.T) {
	if _, ok := ScanWindow(defaultParams(), 600); ok {
		t.Fatal("expected no window when target is past end of file")
	}
	params := defaultParams()
	params.TargetTime = -1
	if _, ok := ScanWindow(params, 1420); ok {
		t.Fatal("expected no window for negative target")
	}
}

func TestScanWindowCollapsedMargin(t *testing.T) {
	params := defaultParams()
	params.Margin = 0
	win, ok := ScanWindow(params, 1420)
	if !ok {
		t.Fatal("expected window")
	}
	if win.Length != 0.04 {
		t.Fatalf("collapsed window length = %v", win.Length)
	}
}

func TestSelectPrefersRunNearestTarget(t *testing.T) {
	runs := []media.BlackRun{
		{Start: 662, End: 662.7, Duration: 0.7},
		{Start: 708, End: 708.8, Duration: 0.8},
		{Start: 755, End: 755.6, Duration: 0.6},
	}
	boundary, ok := Select(runs, defaultParams())
	if !ok {
		t.Fatal("expected boundary")
	}
	if boundary.Cut != 708 || boundary.Resume != 708.8 {
		t.Fatalf("boundary = %+v", boundary)
	}
	if boundary.HardCut {
		t.Fatal("unexpected hard cut")
	}
	if boundary.Confidence <= 0 || boundary.Confidence > 1 {
		t.Fatalf("confidence = %v", boundary.Confidence)
	}
}

func TestSelectPenalizesClusteredRuns(t *testing.T) {
	// The run at 705 is nearest the target but sits in a cluster of
	// three; the isolated run at 690 should win.
	runs := []media.BlackRun{
		{Start: 690, End: 690.8, Duration: 0.8},
		{Start: 703, End: 703.6, Duration: 0.6},
		{Start: 705, End: 705.7, Duration: 0.7},
		{Start: 707, End: 707.5, Duration: 0.5},
	}
	boundary, ok := Select(runs, defaultParams())
	if !ok {
		t.Fatal("expected boundary")
	}
	if boundary.Cut != 690 {
		t.Fatalf("cut = %v, want isolated run at 690", boundary.Cut)
	}
}

func TestSelectPenalizesOutOfBandDurations(t *testing.T) {
	// Both runs are equidistant from the target; the one inside the
	// typical transition band wins.
	runs := []media.BlackRun{
		{Start: 705, End: 708.5, Duration: 3.5},
		{Start: 715, End: 716, Duration: 1.0},
	}
	boundary, ok := Select(runs, defaultParams())
	if !ok {
		t.Fatal("expected boundary")
	}
	if boundary.Cut != 715 {
		t.Fatalf("cut = %v, want in-band run at 715", boundary.Cut)
	}
}

func TestAnalyzeDropsRunsOutsideDurationBounds(t *testing.T) {
	runs := []media.BlackRun{
		{Start: 710, End: 710.1, Duration: 0.1},
		{Start: 712, End: 717, Duration: 5.0},
	}
	if candidates := Analyze(runs, defaultParams()); len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %+v", candidates)
	}
}

func TestAnalyzeDropsRunsOutsideMargin(t *testing.T) {
	runs := []media.BlackRun{
		{Start: 200, End: 200.8, Duration: 0.8},
	}
	if candidates := Analyze(runs, defaultParams()); len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %+v", candidates)
	}
}

func TestSelectNoRuns(t *testing.T) {
	if _, ok := Select(nil, defaultParams()); ok {
		t.Fatal("expected no boundary")
	}
}

func TestHardCutBoundary(t *testing.T) {
	boundary := HardCutBoundary(defaultParams())
	if !boundary.HardCut {
		t.Fatal("expected hard cut flag")
	}
	if boundary.Cut != 710 || boundary.Resume != 710 {
		t.Fatalf("boundary = %+v", boundary)
	}
	if boundary.Confidence != 0 {
		t.Fatalf("confidence = %v", boundary.Confidence)
	}
}

func TestScoreComponents(t *testing.T) {
	params := defaultParams()
	run := media.BlackRun{Start: 740, End: 740.7, Duration: 0.7}
	c := score(run, []media.BlackRun{run}, params)
	if math.Abs(c.TimeScore-0.5) > 1e-9 {
		t.Fatalf("time score = %v", c.TimeScore)
	}
	if c.DurationScore != 0 || c.IsolationScore != 0 {
		t.Fatalf("unexpected penalties: %+v", c)
	}
}
