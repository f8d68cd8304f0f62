package matching

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"episplit/internal/catalog"
	"episplit/internal/textutil"
)

var titleCaser = cases.Title(language.English)

// OutputName renders the final file name for a resolved episode:
// "Show - SxxEyy - Title.ext". The title segment is dropped when the
// record carries none.
func OutputName(show string, rec catalog.EpisodeRecord, ext string) string {
	code := fmt.Sprintf("S%02dE%02d", rec.Season, rec.Episode)
	name := fmt.Sprintf("%s - %s", show, code)
	if rec.Title != "" {
		name = fmt.Sprintf("%s - %s", name, rec.Title)
	}
	return textutil.SanitizeFileName(name) + ext
}

// placeholderRecord synthesizes an identity for an episode the catalog
// does not know. The raw filename title is title-cased when present.
func placeholderRecord(season, episode int, title string) catalog.EpisodeRecord {
	if title != "" {
		title = titleCaser.String(title)
	}
	return catalog.EpisodeRecord{
		Season:  season,
		Episode: episode,
		Title:   title,
		Code:    fmt.Sprintf("S%02dE%02d", season, episode),
	}
}
