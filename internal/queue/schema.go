package queue

import (
	"context"
	"fmt"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS run_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT,
    source_path TEXT NOT NULL,
    kind TEXT NOT NULL,
    status TEXT NOT NULL,
    duration_seconds REAL NOT NULL DEFAULT 0,
    boundary_cut REAL NOT NULL DEFAULT 0,
    boundary_resume REAL NOT NULL DEFAULT 0,
    confidence REAL NOT NULL DEFAULT 0,
    hard_cut INTEGER NOT NULL DEFAULT 0,
    first_part_file TEXT,
    second_part_file TEXT,
    reencoded INTEGER NOT NULL DEFAULT 0,
    first_output_file TEXT,
    second_output_file TEXT,
    match_json TEXT,
    progress_stage TEXT,
    progress_message TEXT,
    error_kind TEXT,
    error_message TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

var indexSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_run_items_status ON run_items(status)`,
	`CREATE INDEX IF NOT EXISTS idx_run_items_run ON run_items(run_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_run_items_source ON run_items(run_id, source_path)`,
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create run_items table: %w", err)
	}
	for _, stmt := range indexSQL {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
