// Package assemble cuts a double-episode file into its two episodes.
//
// The first episode is everything before the boundary cut. The second
// episode is the tail after the boundary resume point with the show's
// intro re-attached in front, since the source only plays the intro
// once at the top of the file.
//
// Cutting is lossless-first: every segment is extracted with stream
// copy and joined with the concat demuxer. When the container refuses a
// stream copy the whole second-episode path is rebuilt with a re-encode
// and the item is flagged accordingly.
package assemble

import (
	"fmt"
	"path/filepath"
	"strings"
)

// introTrim shaves the tail of the re-encoded intro to avoid a frozen
// frame at the splice point.
const introTrim = 0.5

// Plan describes the segments to produce for one item.
type Plan struct {
	// FirstEnd is where the first episode stops, in seconds.
	FirstEnd float64
	// SecondStart is where the second episode's tail resumes.
	SecondStart float64
	// IntroDuration is the length of intro to re-attach; zero disables
	// re-attachment.
	IntroDuration float64

	FirstPart  string
	SecondPart string
	introFile  string
	tailFile   string
}

// NewPlan lays out the cut points and staging paths for a source file.
func NewPlan(sourcePath, stagingDir string, cut, resume, introDuration float64) Plan {
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := func(suffix string) string {
		return filepath.Join(stagingDir, fmt.Sprintf("%s_%s%s", stem, suffix, ext))
	}
	return Plan{
		FirstEnd:      cut,
		SecondStart:   resume,
		IntroDuration: introDuration,
		FirstPart:     name("part1"),
		SecondPart:    name("part2"),
		introFile:     name("intro"),
		tailFile:      name("tail"),
	}
}

// ReattachIntro reports whether the second episode gets the intro
// prepended.
func (p Plan) ReattachIntro() bool {
	return p.IntroDuration > 0
}

// introEnd returns the intro cut point for the given encode mode. The
// re-encoded intro is trimmed slightly to avoid duplicating the frame
// at the splice.
func (p Plan) introEnd(reencode bool) float64 {
	if reencode && p.IntroDuration > introTrim {
		return p.IntroDuration - introTrim
	}
	return p.IntroDuration
}
