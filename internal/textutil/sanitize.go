package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
// Question marks disappear entirely so "What Now?" stays readable as a title.
var fileNameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\"", "_",
	"?", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}
