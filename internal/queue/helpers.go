package queue

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const itemColumns = `id, run_id, source_path, kind, status, duration_seconds,
    boundary_cut, boundary_resume, confidence, hard_cut,
    first_part_file, second_part_file, reencoded,
    first_output_file, second_output_file, match_json,
    progress_stage, progress_message, error_kind, error_message,
    created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item          Item
		runID         sql.NullString
		hardCut       int
		reencoded     int
		firstPart     sql.NullString
		secondPart    sql.NullString
		firstOutput   sql.NullString
		secondOutput  sql.NullString
		matchJSON     sql.NullString
		progressStage sql.NullString
		progressMsg   sql.NullString
		errorKind     sql.NullString
		errorMessage  sql.NullString
		kind          string
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(
		&item.ID,
		&runID,
		&item.SourcePath,
		&kind,
		&item.Status,
		&item.DurationSeconds,
		&item.BoundaryCut,
		&item.BoundaryResume,
		&item.Confidence,
		&hardCut,
		&firstPart,
		&secondPart,
		&reencoded,
		&firstOutput,
		&secondOutput,
		&matchJSON,
		&progressStage,
		&progressMsg,
		&errorKind,
		&errorMessage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.RunID = runID.String
	item.Kind = Kind(kind)
	item.HardCut = hardCut != 0
	item.Reencoded = reencoded != 0
	item.FirstPartFile = firstPart.String
	item.SecondPartFile = secondPart.String
	item.FirstOutputFile = firstOutput.String
	item.SecondOutputFile = secondOutput.String
	item.MatchJSON = matchJSON.String
	item.ProgressStage = progressStage.String
	item.ProgressMessage = progressMsg.String
	item.ErrorKind = errorKind.String
	item.ErrorMessage = errorMessage.String

	if item.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if item.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &item, nil
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}
