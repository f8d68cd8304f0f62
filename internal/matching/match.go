package matching

import (
	"errors"
	"fmt"
	"math"

	"episplit/internal/catalog"
	"episplit/internal/services"
	"episplit/internal/textutil"
)

// ambiguityEpsilon bounds the score gap below which two distinct catalog
// hits are considered indistinguishable.
const ambiguityEpsilon = 0.001

// Match is one resolved episode identity.
type Match struct {
	Record catalog.EpisodeRecord `json:"record"`
	Score  float64               `json:"score"`
	// Exact is set when the identity came from a (season, episode)
	// lookup rather than title similarity.
	Exact bool `json:"exact"`
	// Fallback is set when nothing in the catalog matched and the
	// record was synthesized from the filename.
	Fallback bool `json:"fallback"`
}

// Matcher resolves raw titles against an episode catalog.
type Matcher struct {
	catalog   *catalog.Catalog
	threshold float64
}

// NewMatcher builds a matcher. threshold is the minimum similarity for a
// title match, in [0, 1].
func NewMatcher(cat *catalog.Catalog, threshold float64) *Matcher {
	return &Matcher{catalog: cat, threshold: threshold}
}

// MatchTitle finds the catalog record most similar to the raw title. ok
// is false when no record clears the threshold. Two distinct records
// tied at the top score produce an ambiguous-match error.
func (m *Matcher) MatchTitle(title string) (Match, bool, error) {
	if m.catalog.Len() == 0 || title == "" {
		return Match{}, false, nil
	}
	normalized := textutil.NormalizeTitle(title)
	queryFP := textutil.NewFingerprint(normalized)

	var (
		best       Match
		bestScore  = -1.0
		runnerUp   catalog.EpisodeRecord
		runnerTied bool
	)
	for _, rec := range m.catalog.Records() {
		candidate := rec.NormalizedTitle()
		score := textutil.Ratio(normalized, candidate)
		if cosine := textutil.CosineSimilarity(queryFP, textutil.NewFingerprint(candidate)); cosine > score {
			score = cosine
		}
		switch {
		case score > bestScore+ambiguityEpsilon:
			best = Match{Record: rec, Score: score}
			bestScore = score
			runnerTied = false
		case math.Abs(score-bestScore) <= ambiguityEpsilon && rec.Key() != best.Record.Key():
			runnerUp = rec
			runnerTied = true
		}
	}
	if bestScore < m.threshold {
		return Match{}, false, nil
	}
	if runnerTied {
		return Match{}, false, services.Wrap(services.ErrAmbiguousMatch, "match", "title",
			fmt.Sprintf("%q matches both %s and %s at %.3f", title, best.Record.Key(), runnerUp.Key(), bestScore), nil)
	}
	return best, true, nil
}

// Resolve produces the identity for one episode slot: title similarity
// first, the (season, episode) key as backstop, and a synthesized
// placeholder when the catalog has neither. An ambiguous title match is
// not fatal here; the key backstop decides instead.
func (m *Matcher) Resolve(season, episode int, title string) (Match, error) {
	match, ok, err := m.MatchTitle(title)
	if err != nil {
		if !errors.Is(err, services.ErrAmbiguousMatch) {
			return Match{}, err
		}
		ok = false
	}
	if ok {
		return match, nil
	}
	if rec, found := m.catalog.Lookup(season, episode); found {
		return Match{Record: rec, Score: 1, Exact: true}, nil
	}
	return Match{Record: placeholderRecord(season, episode, title), Fallback: true}, nil
}
