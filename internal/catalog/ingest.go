package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"episplit/internal/services"
)

// IngestResult is the outcome of parsing a freeform episode listing.
type IngestResult struct {
	Catalog *Catalog
	// Layout names the listing layout that matched.
	Layout string
	// Duplicates lists keys that appeared more than once; the first
	// occurrence is kept.
	Duplicates []Key
	// Skipped counts non-blank lines the matched layout could not parse.
	Skipped int
}

// layout describes one recognized listing shape. A layout either carries
// season and episode in every line or relies on "Season N" header lines,
// in which case seasonFromHeader is set and the pattern captures only
// the episode number and title.
type layout struct {
	name             string
	pattern          *regexp.Regexp
	seasonFromHeader bool
	// parse maps a regexp match to (season, episode, title). season is
	// ignored when seasonFromHeader is set.
	parse func(m []string) (int, int, string, error)
}

var seasonHeaderRe = regexp.MustCompile(`(?i)^season\s+(\d+)\s*:?\s*$`)

// Layouts are tried in fixed order; the first one that parses at least one
// line of the listing wins, and the whole listing is read with it.
var layouts = []layout{
	{
		name:    "standard",
		pattern: regexp.MustCompile(`^[Ss]?(\d+)[xXeE](\d+)\s*[-–—:]\s*(.+)$`),
		parse:   seasonEpisodeTitle,
	},
	{
		name:    "verbose",
		pattern: regexp.MustCompile(`(?i)^season\s+(\d+),?\s*episode\s+(\d+)\s*[:\-–—]?\s*(.+)$`),
		parse:   seasonEpisodeTitle,
	},
	{
		name:    "quoted",
		pattern: regexp.MustCompile(`^"(.+)"\s*\(S?(\d+)[xXeE](\d+)\)\s*$`),
		parse: func(m []string) (int, int, string, error) {
			season, err := strconv.Atoi(m[2])
			if err != nil {
				return 0, 0, "", err
			}
			episode, err := strconv.Atoi(m[3])
			if err != nil {
				return 0, 0, "", err
			}
			return season, episode, m[1], nil
		},
	},
	{
		name:    "imdb",
		pattern: regexp.MustCompile(`^S(\d+)\.E(\d+)\s*[∙·•]\s*(.+)$`),
		parse:   seasonEpisodeTitle,
	},
	{
		name:    "title_first",
		pattern: regexp.MustCompile(`^(.+?)\s*\((\d+)\.(\d+)\)\s*$`),
		parse: func(m []string) (int, int, string, error) {
			season, err := strconv.Atoi(m[2])
			if err != nil {
				return 0, 0, "", err
			}
			episode, err := strconv.Atoi(m[3])
			if err != nil {
				return 0, 0, "", err
			}
			return season, episode, m[1], nil
		},
	},
	{
		name:             "wiki_numbered",
		pattern:          regexp.MustCompile(`^(\d+)\s+"(.+)"\s*$`),
		seasonFromHeader: true,
		parse:            episodeTitle,
	},
	{
		name:             "episode_only",
		pattern:          regexp.MustCompile(`(?i)^episode\s+(\d+)\s*[:\-–—]?\s*(.+)$`),
		seasonFromHeader: true,
		parse:            episodeTitle,
	},
	{
		name:             "numbered",
		pattern:          regexp.MustCompile(`^(\d+)[\.\)]\s+(.+)$`),
		seasonFromHeader: true,
		parse:            episodeTitle,
	},
}

func seasonEpisodeTitle(m []string) (int, int, string, error) {
	season, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, "", err
	}
	episode, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, "", err
	}
	return season, episode, m[3], nil
}

func episodeTitle(m []string) (int, int, string, error) {
	episode, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, "", err
	}
	return 0, episode, m[2], nil
}

// Ingest parses a freeform episode listing into a catalog. The listing's
// layout is detected by trying each known layout in order; lines like
// "Season 2" set the current season for layouts that do not carry one.
func Ingest(text string) (*IngestResult, error) {
	lines := listingLines(text)
	if len(lines) == 0 {
		return nil, services.Wrap(services.ErrUnrecognizedFormat, "catalog", "ingest", "empty listing", nil)
	}
	for _, lay := range layouts {
		result, matched := ingestWith(lay, lines)
		if !matched {
			continue
		}
		return result, nil
	}
	return nil, services.Wrap(services.ErrUnrecognizedFormat, "catalog", "ingest",
		fmt.Sprintf("no known listing layout matched %d lines", len(lines)), nil)
}

func ingestWith(lay layout, lines []string) (*IngestResult, bool) {
	var (
		records    []EpisodeRecord
		duplicates []Key
		skipped    int
		season     = 1
	)
	seen := make(map[Key]bool)
	for _, line := range lines {
		if m := seasonHeaderRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				season = n
			}
			continue
		}
		m := lay.pattern.FindStringSubmatch(line)
		if m == nil {
			skipped++
			continue
		}
		s, episode, title, err := lay.parse(m)
		if err != nil {
			skipped++
			continue
		}
		if lay.seasonFromHeader {
			s = season
		}
		title = cleanTitle(title)
		if title == "" {
			skipped++
			continue
		}
		key := Key{Season: s, Episode: episode}
		if seen[key] {
			duplicates = append(duplicates, key)
			continue
		}
		seen[key] = true
		records = append(records, EpisodeRecord{Season: s, Episode: episode, Title: title})
	}
	if len(records) == 0 {
		return nil, false
	}
	cat, err := New(records)
	if err != nil {
		// seen guards against duplicate keys already.
		return nil, false
	}
	return &IngestResult{Catalog: cat, Layout: lay.name, Duplicates: duplicates, Skipped: skipped}, true
}

var (
	airedSuffixRe = regexp.MustCompile(`(?i)\s*\((?:aired\s+)?[a-z]*\.?\s*\d{1,2},?\s+\d{4}\)\s*$`)
	dateSuffixRe  = regexp.MustCompile(`\s*[-–—]\s*\d{4}-\d{2}-\d{2}\s*$`)
)

// cleanTitle strips surrounding quotes and trailing air-date annotations
// that listing sources commonly append.
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = airedSuffixRe.ReplaceAllString(title, "")
	title = dateSuffixRe.ReplaceAllString(title, "")
	title = strings.Trim(strings.TrimSpace(title), `"“”`)
	return strings.TrimSpace(title)
}

func listingLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
