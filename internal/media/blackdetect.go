package media

import (
	"sort"
	"strconv"
	"strings"
)

// ParseBlackdetect extracts black runs from ffmpeg blackdetect filter
// output. Timestamps in the output are relative to the start of the
// decoded input; offset shifts them back to absolute file time when the
// scan used an input seek. Results are sorted by start time.
func ParseBlackdetect(output string, offset float64) []BlackRun {
	var runs []BlackRun
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "black_start:") {
			continue
		}
		start, ok := fieldAfter(line, "black_start:")
		if !ok {
			continue
		}
		end, ok := fieldAfter(line, "black_end:")
		if !ok {
			continue
		}
		duration, ok := fieldAfter(line, "black_duration:")
		if !ok {
			duration = end - start
		}
		runs = append(runs, BlackRun{
			Start:    start + offset,
			End:      end + offset,
			Duration: duration,
		})
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Start < runs[j].Start })
	return runs
}

func fieldAfter(line, key string) (float64, bool) {
	idx := strings.Index(line, key)
	if idx < 0 {
		return 0, false
	}
	rest := strings.TrimSpace(line[idx+len(key):])
	if end := strings.IndexAny(rest, " \t\r"); end >= 0 {
		rest = rest[:end]
	}
	value, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
