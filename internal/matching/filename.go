package matching

import (
	"path/filepath"
	"regexp"
	"strings"

	"episplit/internal/services"
)

// ParsedName is the identity information carried by a source filename.
type ParsedName struct {
	Show          string
	Season        int
	FirstEpisode  int
	SecondEpisode int
	FirstTitle    string
	SecondTitle   string
	Ext           string
}

// IsDouble reports whether the filename names two episodes.
func (p ParsedName) IsDouble() bool {
	return p.SecondEpisode > 0
}

var (
	// "Show - S01E01-02 - Title A + Title B.mkv"
	dashPattern = regexp.MustCompile(`^(.+?)\s*-\s*[Ss](\d+)[Ee](\d+)(?:-[Ee]?(\d+))?\s*-\s*(.+)$`)
	// "Show.S01E01.S01E02.mkv", "Show.S01E01E02.mkv", "Show.S01E03.mkv"
	dottedPattern = regexp.MustCompile(`^(.+?)[._ ][Ss](\d+)[Ee](\d+)(?:[._\- ]?(?:[Ss]\d+)?[Ee](\d+))?$`)
	// "My Show 1x01.mkv", "Show - 1x01-02 - Title A + Title B.mkv"
	crossPattern = regexp.MustCompile(`^(.+?)\s*[-._ ]\s*(\d+)[xX](\d+)(?:-(\d+))?(?:\s*-\s*(.+))?$`)
)

// ParseFilename extracts episode identity from a source file name. The
// path may be absolute; only the base name is considered.
func ParseFilename(path string) (ParsedName, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if m := dashPattern.FindStringSubmatch(stem); m != nil {
		parsed := ParsedName{
			Show:          strings.TrimSpace(m[1]),
			Season:        atoiSafe(m[2]),
			FirstEpisode:  atoiSafe(m[3]),
			SecondEpisode: atoiSafe(m[4]),
			Ext:           strings.ToLower(ext),
		}
		titles := splitTitles(m[5])
		if len(titles) > 0 {
			parsed.FirstTitle = titles[0]
		}
		if len(titles) > 1 {
			parsed.SecondTitle = titles[1]
			if parsed.SecondEpisode == 0 {
				parsed.SecondEpisode = parsed.FirstEpisode + 1
			}
		}
		return parsed, nil
	}

	if m := dottedPattern.FindStringSubmatch(stem); m != nil {
		return ParsedName{
			Show:          dottedShowName(m[1]),
			Season:        atoiSafe(m[2]),
			FirstEpisode:  atoiSafe(m[3]),
			SecondEpisode: atoiSafe(m[4]),
			Ext:           strings.ToLower(ext),
		}, nil
	}

	if m := crossPattern.FindStringSubmatch(stem); m != nil {
		parsed := ParsedName{
			Show:          dottedShowName(m[1]),
			Season:        atoiSafe(m[2]),
			FirstEpisode:  atoiSafe(m[3]),
			SecondEpisode: atoiSafe(m[4]),
			Ext:           strings.ToLower(ext),
		}
		titles := splitTitles(m[5])
		if len(titles) > 0 {
			parsed.FirstTitle = titles[0]
		}
		if len(titles) > 1 {
			parsed.SecondTitle = titles[1]
			if parsed.SecondEpisode == 0 {
				parsed.SecondEpisode = parsed.FirstEpisode + 1
			}
		}
		return parsed, nil
	}

	return ParsedName{}, services.Wrap(services.ErrUnrecognizedFormat, "match", "parse filename",
		"no episode identity in "+base, nil)
}

// splitTitles divides the title portion on '+', the separator used for
// double-episode files.
func splitTitles(raw string) []string {
	var titles []string
	for _, part := range strings.Split(raw, "+") {
		part = strings.TrimSpace(part)
		if part != "" {
			titles = append(titles, part)
		}
	}
	return titles
}

func dottedShowName(raw string) string {
	raw = strings.NewReplacer(".", " ", "_", " ").Replace(raw)
	return strings.Join(strings.Fields(raw), " ")
}

func atoiSafe(value string) int {
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
