// Package detect selects the episode boundary inside a double-episode
// file from black frame runs.
//
// Detection scans a bounded window around the expected transition time
// rather than the whole file. Each candidate run is scored by its
// distance from the target, its duration, and how isolated it is from
// neighboring runs; the lowest score wins. The selected run's start is
// where the first episode ends and its end is where the second episode
// resumes, so the black run itself is dropped from both outputs.
package detect

import (
	"math"
	"sort"

	"episplit/internal/media"
)

// Params tunes boundary selection.
type Params struct {
	// TargetTime is the expected transition point in seconds.
	TargetTime float64
	// Margin bounds the scan window to TargetTime +/- Margin seconds.
	Margin float64
	// MinBlackDuration and MaxBlackDuration bound the accepted run
	// length in seconds.
	MinBlackDuration float64
	MaxBlackDuration float64
}

// Candidate is one scored black run. Lower Score is better.
type Candidate struct {
	Run            media.BlackRun
	TimeScore      float64
	DurationScore  float64
	IsolationScore float64
	Score          float64
	Confidence     float64
}

// Boundary reports the selected cut: the first episode ends at Cut and
// the second episode resumes at Resume.
type Boundary struct {
	Cut        float64
	Resume     float64
	Confidence float64
	// HardCut is set when no transition was found and the boundary was
	// forced to the target time.
	HardCut bool
}

// durationBand is the run length range, in seconds, considered typical
// for an episode transition. Runs outside it are penalized, not dropped.
const (
	durationBandLow  = 0.5
	durationBandHigh = 2.0
	isolationRadius  = 5.0
	isolationWeight  = 0.5
)

// ScanWindow computes the detection window for a file of the given
// duration. ok is false when the target time falls outside the file, in
// which case no scan is useful.
func ScanWindow(params Params, durationSeconds float64) (media.Window, bool) {
	if params.TargetTime < 0 || params.TargetTime >= durationSeconds {
		return media.Window{}, false
	}
	start := math.Max(0, params.TargetTime-params.Margin)
	end := math.Min(durationSeconds, params.TargetTime+params.Margin)
	length := math.Max(0.04, end-start)
	return media.Window{Start: start, Length: length}, true
}

// Analyze filters and scores runs, returning candidates sorted best
// first. Runs outside the accepted duration band or farther than Margin
// from the target are excluded; a nil result means no usable transition.
func Analyze(runs []media.BlackRun, params Params) []Candidate {
	var usable []media.BlackRun
	for _, run := range runs {
		if run.Duration < params.MinBlackDuration || run.Duration > params.MaxBlackDuration {
			continue
		}
		usable = append(usable, run)
	}

	var candidates []Candidate
	for _, run := range usable {
		if math.Abs(run.Start-params.TargetTime) > params.Margin {
			continue
		}
		candidates = append(candidates, score(run, usable, params))
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score < candidates[j].Score
		}
		di := math.Abs(candidates[i].Run.Start - params.TargetTime)
		dj := math.Abs(candidates[j].Run.Start - params.TargetTime)
		if di != dj {
			return di < dj
		}
		return candidates[i].Run.Start < candidates[j].Run.Start
	})
	return candidates
}

// Select runs Analyze and converts the winner to a Boundary.
func Select(runs []media.BlackRun, params Params) (Boundary, bool) {
	candidates := Analyze(runs, params)
	if len(candidates) == 0 {
		return Boundary{}, false
	}
	best := candidates[0]
	return Boundary{
		Cut:        best.Run.Start,
		Resume:     best.Run.End,
		Confidence: best.Confidence,
	}, true
}

// HardCutBoundary forces the boundary to the target time when no
// transition was found.
func HardCutBoundary(params Params) Boundary {
	return Boundary{Cut: params.TargetTime, Resume: params.TargetTime, HardCut: true}
}

func score(run media.BlackRun, all []media.BlackRun, params Params) Candidate {
	margin := params.Margin
	if margin <= 0 {
		margin = 1
	}
	timeScore := math.Abs(run.Start-params.TargetTime) / margin

	durationScore := 0.0
	if run.Duration < durationBandLow || run.Duration > durationBandHigh {
		durationScore = math.Min(
			math.Abs(run.Duration-durationBandLow),
			math.Abs(run.Duration-durationBandHigh))
	}

	isolation := 0.0
	for _, other := range all {
		if other.Start == run.Start {
			continue
		}
		if math.Abs(run.Start-other.Start) < isolationRadius {
			isolation++
		}
	}

	total := timeScore + durationScore + isolation*isolationWeight
	return Candidate{
		Run:            run,
		TimeScore:      timeScore,
		DurationScore:  durationScore,
		IsolationScore: isolation,
		Score:          total,
		Confidence:     1 / (1 + total),
	}
}
