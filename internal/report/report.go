// Package report aggregates the per-file outcomes of a run.
package report

import (
	"encoding/json"
	"io"
	"time"

	"episplit/internal/queue"
)

// Outcome classifies what happened to one source file.
type Outcome string

const (
	// OutcomeSplit means the file was cut into two episodes.
	OutcomeSplit Outcome = "split"
	// OutcomeCopied means a single-episode file was renamed into place.
	OutcomeCopied Outcome = "copied"
	// OutcomeNoBoundary means no transition was found and the file was
	// skipped under the skip policy.
	OutcomeNoBoundary Outcome = "no_boundary"
	// OutcomeFailed covers every other failure.
	OutcomeFailed Outcome = "failed"
	// OutcomePending means the run stopped before the file finished.
	OutcomePending Outcome = "pending"
)

// Entry is the report line for one source file.
type Entry struct {
	Source     string   `json:"source"`
	Outcome    Outcome  `json:"outcome"`
	Outputs    []string `json:"outputs,omitempty"`
	Boundary   float64  `json:"boundary,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	HardCut    bool     `json:"hard_cut,omitempty"`
	Reencoded  bool     `json:"reencoded,omitempty"`
	ErrorKind  string   `json:"error_kind,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Report summarizes a whole run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Entries    []Entry   `json:"entries"`

	Split      int `json:"split"`
	Copied     int `json:"copied"`
	NoBoundary int `json:"no_boundary"`
	Failed     int `json:"failed"`
	Pending    int `json:"pending"`
}

// FromItems builds the run report from the queue items of a run.
func FromItems(runID string, items []*queue.Item, started, finished time.Time) Report {
	rep := Report{RunID: runID, StartedAt: started, FinishedAt: finished}
	for _, item := range items {
		entry := entryFor(item)
		rep.Entries = append(rep.Entries, entry)
		switch entry.Outcome {
		case OutcomeSplit:
			rep.Split++
		case OutcomeCopied:
			rep.Copied++
		case OutcomeNoBoundary:
			rep.NoBoundary++
		case OutcomeFailed:
			rep.Failed++
		default:
			rep.Pending++
		}
	}
	return rep
}

func entryFor(item *queue.Item) Entry {
	entry := Entry{
		Source:     item.SourcePath,
		Outputs:    item.OutputFiles(),
		Boundary:   item.BoundaryCut,
		Confidence: item.Confidence,
		HardCut:    item.HardCut,
		Reencoded:  item.Reencoded,
	}
	switch item.Status {
	case queue.StatusCompleted:
		if item.Kind == queue.KindSingle {
			entry.Outcome = OutcomeCopied
		} else {
			entry.Outcome = OutcomeSplit
		}
	case queue.StatusFailed:
		entry.ErrorKind = item.ErrorKind
		entry.Error = item.ErrorMessage
		if item.ErrorKind == "no_boundary" {
			entry.Outcome = OutcomeNoBoundary
		} else {
			entry.Outcome = OutcomeFailed
		}
	default:
		entry.Outcome = OutcomePending
	}
	return entry
}

// Succeeded reports whether every file reached a terminal success state.
func (r Report) Succeeded() bool {
	return r.Failed == 0 && r.NoBoundary == 0 && r.Pending == 0
}

// WriteJSON renders the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
