package textutil

import (
	"math"
	"regexp"
	"strings"
)

var termPattern = regexp.MustCompile(`[a-z0-9]+`)

// Fingerprint is a term-frequency vector over the words of a title. It
// makes similarity word-order insensitive, which edit distance is not.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint builds the term vector for text. Words shorter than
// three characters carry little signal in episode titles and are
// dropped. Returns nil when no terms remain.
func NewFingerprint(text string) *Fingerprint {
	counts := make(map[string]float64)
	for _, term := range termPattern.FindAllString(strings.ToLower(text), -1) {
		if len(term) < 3 {
			continue
		}
		counts[term]++
	}
	if len(counts) == 0 {
		return nil
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{terms: counts, norm: math.Sqrt(norm)}
}
