package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusDetecting  Status = "detecting"
	StatusDetected   Status = "detected"
	StatusAssembling Status = "assembling"
	StatusAssembled  Status = "assembled"
	StatusMatching   Status = "matching"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Kind distinguishes files that need splitting from ones that only need
// renaming.
type Kind string

const (
	KindDouble Kind = "double"
	KindSingle Kind = "single"
)

var allStatuses = []Status{
	StatusPending,
	StatusDetecting,
	StatusDetected,
	StatusAssembling,
	StatusAssembled,
	StatusMatching,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusDetecting:  {},
	StatusAssembling: {},
	StatusMatching:   {},
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Item represents one source file persisted in SQLite.
type Item struct {
	ID         int64
	RunID      string
	SourcePath string
	Kind       Kind
	Status     Status

	DurationSeconds float64

	// Boundary fields are populated by detection.
	BoundaryCut    float64
	BoundaryResume float64
	Confidence     float64
	HardCut        bool

	// Assembly outputs in the staging area.
	FirstPartFile  string
	SecondPartFile string
	Reencoded      bool

	// Final outputs after matching and rename.
	FirstOutputFile  string
	SecondOutputFile string
	MatchJSON        string

	ProgressStage   string
	ProgressMessage string
	ErrorKind       string
	ErrorMessage    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	return IsProcessingStatus(i.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// SetProgress updates the progress fields together.
func (i *Item) SetProgress(stage, message string) {
	i.ProgressStage = stage
	i.ProgressMessage = message
}

// SetFailed marks the item as failed with the given classification and
// message.
func (i *Item) SetFailed(kind, message string) {
	i.Status = StatusFailed
	i.ErrorKind = kind
	i.ErrorMessage = message
	i.ProgressStage = "failed"
	i.ProgressMessage = message
}

// OutputFiles returns the final output paths produced for the item, in
// episode order.
func (i Item) OutputFiles() []string {
	var files []string
	if i.FirstOutputFile != "" {
		files = append(files, i.FirstOutputFile)
	}
	if i.SecondOutputFile != "" {
		files = append(files, i.SecondOutputFile)
	}
	return files
}
