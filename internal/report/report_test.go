package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"episplit/internal/queue"
)

func TestFromItemsClassifiesOutcomes(t *testing.T) {
	started := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	finished := started.Add(12 * time.Minute)
	items := []*queue.Item{
		{
			SourcePath:       "/in/double.mkv",
			Kind:             queue.KindDouble,
			Status:           queue.StatusCompleted,
			BoundaryCut:      708.2,
			Confidence:       0.9,
			FirstOutputFile:  "/out/a.mkv",
			SecondOutputFile: "/out/b.mkv",
		},
		{
			SourcePath:      "/in/single.mkv",
			Kind:            queue.KindSingle,
			Status:          queue.StatusCompleted,
			FirstOutputFile: "/out/c.mkv",
		},
		{
			SourcePath:   "/in/no-transition.mkv",
			Kind:         queue.KindDouble,
			Status:       queue.StatusFailed,
			ErrorKind:    "no_boundary",
			ErrorMessage: "no transition within 60s of 710s",
		},
		{
			SourcePath:   "/in/broken.mkv",
			Kind:         queue.KindDouble,
			Status:       queue.StatusFailed,
			ErrorKind:    "tool_failure",
			ErrorMessage: "ffmpeg exited with code 1",
		},
		{
			SourcePath: "/in/unfinished.mkv",
			Kind:       queue.KindDouble,
			Status:     queue.StatusDetected,
		},
	}

	rep := FromItems("run-1", items, started, finished)
	if rep.Split != 1 || rep.Copied != 1 || rep.NoBoundary != 1 || rep.Failed != 1 || rep.Pending != 1 {
		t.Fatalf("report counts = %+v", rep)
	}
	if rep.Succeeded() {
		t.Fatal("run with failures should not report success")
	}
	if len(rep.Entries[0].Outputs) != 2 {
		t.Fatalf("outputs = %v", rep.Entries[0].Outputs)
	}
	if rep.Entries[2].Outcome != OutcomeNoBoundary {
		t.Fatalf("outcome = %s", rep.Entries[2].Outcome)
	}
	if rep.Entries[3].ErrorKind != "tool_failure" {
		t.Fatalf("error kind = %s", rep.Entries[3].ErrorKind)
	}
}

func TestSucceeded(t *testing.T) {
	items := []*queue.Item{
		{SourcePath: "/in/a.mkv", Kind: queue.KindDouble, Status: queue.StatusCompleted},
	}
	rep := FromItems("run-1", items, time.Now(), time.Now())
	if !rep.Succeeded() {
		t.Fatal("expected success")
	}
}

func TestWriteJSON(t *testing.T) {
	items := []*queue.Item{
		{SourcePath: "/in/a.mkv", Kind: queue.KindSingle, Status: queue.StatusCompleted, FirstOutputFile: "/out/a.mkv"},
	}
	rep := FromItems("run-1", items, time.Now().UTC(), time.Now().UTC())

	var buf bytes.Buffer
	if err := rep.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"run_id": "run-1"`, `"outcome": "copied"`, `"/out/a.mkv"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("json missing %q:\n%s", want, out)
		}
	}
}
