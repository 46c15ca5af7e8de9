// Package sqlite provides the SQLite-backed journal and render log.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slidereel/slidereel/internal/events"
	"github.com/slidereel/slidereel/internal/platform/storage/sqlitemigrate"
	"github.com/slidereel/slidereel/internal/storage"
	"github.com/slidereel/slidereel/internal/storage/sqlite/migrations"
)

// Store is a SQLite-backed store implementing the storage interfaces.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite journal store at the provided path and applies the
// embedded migrations. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// PutRecording inserts or replaces recording metadata.
func (s *Store) PutRecording(ctx context.Context, rec storage.Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("recording id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO recordings (id, duration_ns, width, height)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    duration_ns = excluded.duration_ns,
    width = excluded.width,
    height = excluded.height
`, rec.ID, int64(rec.Duration), rec.Width, rec.Height)
	if err != nil {
		return fmt.Errorf("put recording: %w", err)
	}
	return nil
}

// GetRecording loads recording metadata by id.
func (s *Store) GetRecording(ctx context.Context, id string) (storage.Recording, error) {
	if err := ctx.Err(); err != nil {
		return storage.Recording{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Recording{}, fmt.Errorf("storage is not configured")
	}

	var rec storage.Recording
	var durationNS int64
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, duration_ns, width, height FROM recordings WHERE id = ?", id)
	if err := row.Scan(&rec.ID, &durationNS, &rec.Width, &rec.Height); err != nil {
		if err == sql.ErrNoRows {
			return storage.Recording{}, storage.ErrNotFound
		}
		return storage.Recording{}, fmt.Errorf("get recording: %w", err)
	}
	rec.Duration = time.Duration(durationNS)
	return rec, nil
}

// AppendEvent atomically appends an event and returns it with its sequence
// number assigned. Sequence numbers are per recording and start at 1.
func (s *Store) AppendEvent(ctx context.Context, recordingID string, evt events.Event) (events.Event, error) {
	if err := ctx.Err(); err != nil {
		return events.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return events.Event{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(recordingID) == "" {
		return events.Event{}, fmt.Errorf("recording id is required")
	}
	if !evt.Type.IsValid() {
		return events.Event{}, fmt.Errorf("event type %q is not valid", evt.Type)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return events.Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq uint64
	row := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE recording_id = ?", recordingID)
	if err := row.Scan(&seq); err != nil {
		return events.Event{}, fmt.Errorf("next event seq: %w", err)
	}
	evt.Seq = seq

	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO events (recording_id, seq, timestamp_ns, event_type, user_id, payload_json)
VALUES (?, ?, ?, ?, ?, ?)
`, recordingID, int64(evt.Seq), int64(evt.Timestamp), string(evt.Type), evt.UserID, payload); err != nil {
		return events.Event{}, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return events.Event{}, fmt.Errorf("commit event: %w", err)
	}
	return evt, nil
}

// LoadEvents returns every event of a recording ordered by timestamp, ties
// broken by sequence.
func (s *Store) LoadEvents(ctx context.Context, recordingID string) ([]events.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT seq, timestamp_ns, event_type, user_id, payload_json
FROM events
WHERE recording_id = ?
ORDER BY timestamp_ns ASC, seq ASC
`, recordingID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var loaded []events.Event
	for rows.Next() {
		var evt events.Event
		var seq, timestampNS int64
		var eventType string
		if err := rows.Scan(&seq, &timestampNS, &eventType, &evt.UserID, &evt.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Timestamp = time.Duration(timestampNS)
		evt.Type = events.Type(eventType)
		loaded = append(loaded, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return loaded, nil
}

// AppendTelemetryEvent records an operational render log entry.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.Severity) == "" {
		return fmt.Errorf("severity is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO render_log (run_id, severity, code, message, timestamp_ms)
VALUES (?, ?, ?, ?, ?)
`, evt.RunID, evt.Severity, evt.Code, evt.Message, toMillis(evt.Timestamp))
	if err != nil {
		return fmt.Errorf("append render log: %w", err)
	}
	return nil
}

// ListTelemetryEvents returns the render log entries of a run in append order.
func (s *Store) ListTelemetryEvents(ctx context.Context, runID string) ([]storage.TelemetryEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT run_id, severity, code, message, timestamp_ms
FROM render_log
WHERE run_id = ?
ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, fmt.Errorf("list render log: %w", err)
	}
	defer rows.Close()

	var listed []storage.TelemetryEvent
	for rows.Next() {
		var evt storage.TelemetryEvent
		var millis int64
		if err := rows.Scan(&evt.RunID, &evt.Severity, &evt.Code, &evt.Message, &millis); err != nil {
			return nil, fmt.Errorf("scan render log: %w", err)
		}
		evt.Timestamp = time.UnixMilli(millis).UTC()
		listed = append(listed, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read render log: %w", err)
	}
	return listed, nil
}
