package workflow

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"episplit/internal/config"
	"episplit/internal/services"
)

// DiscoverSources lists the video files in the input directory in
// lexical order. Subdirectories are not descended into.
func DiscoverSources(cfg *config.Config) ([]string, error) {
	entries, err := os.ReadDir(cfg.Paths.InputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "workflow", "discover", "read input directory", err)
	}

	extensions := make(map[string]struct{}, len(cfg.Workflow.VideoExtensions))
	for _, ext := range cfg.Workflow.VideoExtensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := extensions[ext]; !ok {
			continue
		}
		sources = append(sources, filepath.Join(cfg.Paths.InputDir, entry.Name()))
	}
	sort.Strings(sources)
	return sources, nil
}
