package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
)

// formatClock renders seconds as h:mm:ss.s for human-facing tables.
func formatClock(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00:00.0"
	}
	whole := int(seconds)
	frac := seconds - float64(whole)
	h := whole / 3600
	m := (whole % 3600) / 60
	s := float64(whole%60) + frac
	return fmt.Sprintf("%d:%02d:%04.1f", h, m, s)
}

func formatScore(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
