package textutil

import (
	"regexp"
	"strings"
)

// abbreviationReplacer strips the trailing period from honorifics and similar
// abbreviations so "Mr. Smith" and "Mr Smith" normalize identically.
var abbreviationReplacer = strings.NewReplacer(
	"Mr.", "Mr",
	"Mrs.", "Mrs",
	"Ms.", "Ms",
	"Dr.", "Dr",
	"Jr.", "Jr",
	"Sr.", "Sr",
	"St.", "St",
	"vs.", "vs",
)

var (
	ellipsisPattern    = regexp.MustCompile(`\.\.\.`)
	ampersandPattern   = regexp.MustCompile(`\s*&\s*`)
	plusPattern        = regexp.MustCompile(`\s*\+\s*`)
	hyphenWordPattern  = regexp.MustCompile(`(\w)-(\w)`)
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// NormalizeTitle produces the canonical lowercase form of an episode title
// used for matching. Honorific abbreviations keep their letters, "&" and "+"
// become "and", hyphenated words collapse, and remaining punctuation drops.
func NormalizeTitle(title string) string {
	working := abbreviationReplacer.Replace(title)
	working = ellipsisPattern.ReplaceAllString(working, " ")
	working = ampersandPattern.ReplaceAllString(working, " and ")
	working = plusPattern.ReplaceAllString(working, " and ")
	working = hyphenWordPattern.ReplaceAllString(working, "$1$2")
	working = strings.ToLower(working)
	working = punctuationPattern.ReplaceAllString(working, "")
	working = whitespacePattern.ReplaceAllString(working, " ")
	return strings.TrimSpace(working)
}
