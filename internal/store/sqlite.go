package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		page_name TEXT NOT NULL,
		page_url TEXT NOT NULL,
		mode TEXT NOT NULL,
		language TEXT NOT NULL,
		script_path TEXT NOT NULL,
		transcript_path TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		stopped_at INTEGER,
		step_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InsertSession records a newly started session.
func (s *SQLiteStore) InsertSession(ctx context.Context, rec *domain.SessionRecord) error {
	query := `
	INSERT INTO sessions (id, page_name, page_url, mode, language, script_path, transcript_path, started_at, step_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
	ON CONFLICT(id) DO UPDATE SET
		page_name = excluded.page_name,
		page_url = excluded.page_url,
		mode = excluded.mode,
		language = excluded.language,
		script_path = excluded.script_path,
		transcript_path = excluded.transcript_path,
		started_at = excluded.started_at,
		stopped_at = NULL,
		step_count = 0`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.PageName, rec.PageURL, string(rec.Mode), rec.Language,
		rec.ScriptPath, rec.TranscriptPath, rec.StartedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FinishSession marks a session stopped and stores its final step count.
// Retries with exponential backoff on SQLite concurrency errors, since the
// finalizer can race a start on the next session.
func (s *SQLiteStore) FinishSession(ctx context.Context, id string, stoppedAt time.Time, stepCount int64) error {
	maxRetries := 3
	baseDelay := 50 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err := s.finishSessionOnce(ctx, id, stoppedAt, stepCount)
		if err == nil {
			return nil
		}

		if shared.IsSQLiteConflictError(err) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i) // exponential backoff
			slog.Debug("Database locked during session finalize, retrying",
				"session_id", id,
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
			continue
		}

		return err
	}

	return nil
}

func (s *SQLiteStore) finishSessionOnce(ctx context.Context, id string, stoppedAt time.Time, stepCount int64) error {
	query := `UPDATE sessions SET stopped_at = ?, step_count = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, stoppedAt.Unix(), stepCount, id)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("FinishSession affected 0 rows", "session_id", id)
	}
	return nil
}

// GetSession retrieves one session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*domain.SessionRecord, error) {
	query := `
		SELECT id, page_name, page_url, mode, language,
		       script_path, transcript_path, started_at, stopped_at, step_count
		FROM sessions WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)
	rec, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	return rec, nil
}

// ListSessions returns the most recent sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]*domain.SessionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, page_name, page_url, mode, language,
		       script_path, transcript_path, started_at, stopped_at, step_count
		FROM sessions ORDER BY started_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close session rows", "error", closeErr)
		}
	}()

	var records []*domain.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

func scanSession(scan func(dest ...any) error) (*domain.SessionRecord, error) {
	var rec domain.SessionRecord
	var mode string
	var startedAt int64
	var stoppedAt sql.NullInt64

	err := scan(
		&rec.ID, &rec.PageName, &rec.PageURL, &mode, &rec.Language,
		&rec.ScriptPath, &rec.TranscriptPath, &startedAt, &stoppedAt, &rec.StepCount,
	)
	if err != nil {
		return nil, err
	}

	rec.Mode = domain.Mode(mode)
	rec.StartedAt = time.Unix(startedAt, 0)
	if stoppedAt.Valid {
		ts := time.Unix(stoppedAt.Int64, 0)
		rec.StoppedAt = &ts
	}
	return &rec, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
