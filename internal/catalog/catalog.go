package catalog

import (
	"fmt"

	"episplit/internal/textutil"
)

// Key identifies an episode within a catalog.
type Key struct {
	Season  int
	Episode int
}

func (k Key) String() string {
	return fmt.Sprintf("S%02dE%02d", k.Season, k.Episode)
}

// EpisodeRecord is one known episode. Immutable after ingestion.
type EpisodeRecord struct {
	Season  int
	Episode int
	Title   string
	// Code is the short combined form, e.g. "S01E01".
	Code string
}

// Key returns the (season, episode) identity of the record.
func (r EpisodeRecord) Key() Key {
	return Key{Season: r.Season, Episode: r.Episode}
}

// NormalizedTitle returns the canonical matching form of the title.
func (r EpisodeRecord) NormalizedTitle() string {
	return textutil.NormalizeTitle(r.Title)
}

// Catalog is an ordered, read-only collection of episode records with unique
// (season, episode) keys. Safe for concurrent readers.
type Catalog struct {
	records []EpisodeRecord
	byKey   map[Key]int
}

// New builds a catalog from records, rejecting duplicate keys.
func New(records []EpisodeRecord) (*Catalog, error) {
	byKey := make(map[Key]int, len(records))
	stored := make([]EpisodeRecord, 0, len(records))
	for _, rec := range records {
		if rec.Code == "" {
			rec.Code = rec.Key().String()
		}
		if _, exists := byKey[rec.Key()]; exists {
			return nil, fmt.Errorf("duplicate episode key %s", rec.Key())
		}
		byKey[rec.Key()] = len(stored)
		stored = append(stored, rec)
	}
	return &Catalog{records: stored, byKey: byKey}, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns a copy of the ordered record list.
func (c *Catalog) Records() []EpisodeRecord {
	if c == nil {
		return nil
	}
	cp := make([]EpisodeRecord, len(c.records))
	copy(cp, c.records)
	return cp
}

// Lookup returns the record with the given key, if present.
func (c *Catalog) Lookup(season, episode int) (EpisodeRecord, bool) {
	if c == nil {
		return EpisodeRecord{}, false
	}
	idx, ok := c.byKey[Key{Season: season, Episode: episode}]
	if !ok {
		return EpisodeRecord{}, false
	}
	return c.records[idx], true
}
