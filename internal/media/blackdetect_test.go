package media

import (
	"math"
	"testing"
)

const sampleOutput = `
[blackdetect @ 0x5555] black_start:662.36 black_end:663.08 black_duration:0.72
frame=17000 fps=250 q=-0.0 size=N/A time=00:11:20.00 bitrate=N/A speed=17x
[blackdetect @ 0x5555] black_start:701.5 black_end:702.1 black_duration:0.6
[blackdetect @ 0x5555] black_start:640.0 black_end:640.3 black_duration:0.3
`

func TestParseBlackdetect(t *testing.T) {
	runs := ParseBlackdetect(sampleOutput, 0)
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	// Sorted by start.
	if runs[0].Start != 640.0 || runs[1].Start != 662.36 || runs[2].Start != 701.5 {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if runs[1].Duration != 0.72 {
		t.Fatalf("duration = %v", runs[1].Duration)
	}
}

func TestParseBlackdetectAppliesOffset(t *testing.T) {
	out := "[blackdetect @ 0x1] black_start:2.5 black_end:3.0 black_duration:0.5"
	runs := ParseBlackdetect(out, 650)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Start != 652.5 || runs[0].End != 653.0 {
		t.Fatalf("offset not applied: %+v", runs[0])
	}
	if runs[0].Duration != 0.5 {
		t.Fatalf("duration changed by offset: %v", runs[0].Duration)
	}
}

func TestParseBlackdetectSynthesizesDuration(t *testing.T) {
	out := "[blackdetect @ 0x1] black_start:10.0 black_end:10.4"
	runs := ParseBlackdetect(out, 0)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if math.Abs(runs[0].Duration-0.4) > 1e-9 {
		t.Fatalf("duration = %v", runs[0].Duration)
	}
}

func TestParseBlackdetectIgnoresGarbage(t *testing.T) {
	out := "black_start:abc black_end:1.0\nno markers here\n"
	if runs := ParseBlackdetect(out, 0); len(runs) != 0 {
		t.Fatalf("expected no runs, got %+v", runs)
	}
}

func TestBlackRunMidpoint(t *testing.T) {
	run := BlackRun{Start: 10, End: 12}
	if run.Midpoint() != 11 {
		t.Fatalf("midpoint = %v", run.Midpoint())
	}
}

func TestToolErrorTruncatesOutput(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	err := &ToolError{Tool: "ffmpeg", ExitCode: 1, Output: string(long)}
	if len(err.Error()) > 600 {
		t.Fatalf("error message too long: %d bytes", len(err.Error()))
	}
}
