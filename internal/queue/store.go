package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"episplit/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "queue.db")
	return OpenPath(dbPath)
}

// OpenPath opens the database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// NewItem enqueues a source file. Double-episode files start at pending;
// single-episode files skip straight to assembled with the source as
// their only part.
func (s *Store) NewItem(ctx context.Context, runID, sourcePath string, kind Kind) (*Item, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	status := StatusPending
	firstPart := ""
	if kind == KindSingle {
		status = StatusAssembled
		firstPart = sourcePath
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_items (
            run_id, source_path, kind, status, first_part_file, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullableString(runID),
		sourcePath,
		string(kind),
		status,
		nullableString(firstPart),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a queue item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM run_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing queue item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE run_items
         SET run_id = ?, source_path = ?, kind = ?, status = ?,
             duration_seconds = ?, boundary_cut = ?, boundary_resume = ?,
             confidence = ?, hard_cut = ?, first_part_file = ?,
             second_part_file = ?, reencoded = ?, first_output_file = ?,
             second_output_file = ?, match_json = ?, progress_stage = ?,
             progress_message = ?, error_kind = ?, error_message = ?,
             updated_at = ?
         WHERE id = ?`,
		nullableString(item.RunID),
		item.SourcePath,
		string(item.Kind),
		item.Status,
		item.DurationSeconds,
		item.BoundaryCut,
		item.BoundaryResume,
		item.Confidence,
		boolToInt(item.HardCut),
		nullableString(item.FirstPartFile),
		nullableString(item.SecondPartFile),
		boolToInt(item.Reencoded),
		nullableString(item.FirstOutputFile),
		nullableString(item.SecondOutputFile),
		nullableString(item.MatchJSON),
		nullableString(item.ProgressStage),
		nullableString(item.ProgressMessage),
		nullableString(item.ErrorKind),
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List returns queue items filtered by status set (or all items when no
// status is provided), ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	baseQuery := `SELECT ` + itemColumns + ` FROM run_items`
	orderClause := ` ORDER BY created_at, id`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ItemsForRun returns all items belonging to a run, ordered by creation
// time.
func (s *Store) ItemsForRun(ctx context.Context, runID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM run_items WHERE run_id = ? ORDER BY created_at, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// NextForStatuses returns the oldest item matching any of the provided
// statuses.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := makePlaceholders(len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}

	query := `SELECT ` + itemColumns + ` FROM run_items WHERE status IN (` + placeholders + `) ORDER BY created_at, id LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ResetStuckProcessing resets items left in processing states by an
// interrupted run back to their pre-stage status.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	rollbacks := []struct {
		from Status
		to   Status
	}{
		{from: StatusDetecting, to: StatusPending},
		{from: StatusAssembling, to: StatusDetected},
		{from: StatusMatching, to: StatusAssembled},
	}
	var total int64
	for _, rb := range rollbacks {
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE run_items
             SET status = ?, progress_stage = 'reset', progress_message = NULL, updated_at = ?
             WHERE status = ?`,
			rb.to, now, rb.from,
		)
		if err != nil {
			return total, fmt.Errorf("reset stuck items: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += affected
	}
	return total, nil
}

// RetryFailed moves failed items back to pending for reprocessing. With
// no ids, all failed items are retried.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if len(ids) == 0 {
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE run_items
            SET status = ?, progress_stage = 'retry', progress_message = NULL,
                error_kind = NULL, error_message = NULL, updated_at = ?
            WHERE status = ?`,
			StatusPending, now, StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed items: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+3)
	args = append(args, StatusPending, now)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, StatusFailed)
	query := `UPDATE run_items
        SET status = ?, progress_stage = 'retry', progress_message = NULL,
            error_kind = NULL, error_message = NULL, updated_at = ?
        WHERE id IN (` + placeholders + `) AND status = ?`
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected items: %w", err)
	}
	return res.RowsAffected()
}

// ClearCompleted removes completed items from the queue.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM run_items WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed items: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes failed items from the queue.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM run_items WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed items: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every item from the queue.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM run_items`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of items grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM run_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates queue state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch {
		case status == StatusPending:
			health.Pending += count
		case status == StatusFailed:
			health.Failed += count
		case status == StatusCompleted:
			health.Completed += count
		case IsProcessingStatus(status):
			health.Processing += count
		}
	}
	return health, nil
}
