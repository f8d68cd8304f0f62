package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks non-zero exits from ffmpeg/ffprobe invocations.
	ErrExternalTool = errors.New("external tool error")
	// ErrTimeout marks tool invocations that exceeded the configured deadline.
	ErrTimeout = errors.New("timeout")
	// ErrNoBoundary marks the expected no-transition-found outcome.
	ErrNoBoundary = errors.New("no boundary found")
	// ErrUnrecognizedFormat marks catalog ingestion input no layout accepts.
	ErrUnrecognizedFormat = errors.New("unrecognized format")
	// ErrAmbiguousMatch marks catalog lookups with multiple equally good hits.
	ErrAmbiguousMatch = errors.New("ambiguous match")
	// ErrValidation marks inputs that violate a pipeline precondition.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration values.
	ErrConfiguration = errors.New("configuration error")
	// ErrIO marks missing or unreadable input files.
	ErrIO = errors.New("io error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later outcome classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorKind names the sentinel classification of an error for persistence in
// the run report. Unclassified errors report as "error".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoBoundary):
		return "no_boundary"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrExternalTool):
		return "tool_failure"
	case errors.Is(err, ErrUnrecognizedFormat):
		return "unrecognized_format"
	case errors.Is(err, ErrAmbiguousMatch):
		return "ambiguous_match"
	case errors.Is(err, ErrIO):
		return "io_error"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
