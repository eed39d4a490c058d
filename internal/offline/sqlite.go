package offline

import (
	"context"
	"database/sql"
	"fmt"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists queue entries one row per entry in a local
// SQLite database. Row-per-entry writes avoid the lost-update race a
// single shared log key has under concurrent writers.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS location_queue (
	id              TEXT PRIMARY KEY,
	type            TEXT NOT NULL,
	job_id          TEXT NOT NULL,
	event           TEXT NOT NULL,
	latitude        REAL NOT NULL,
	longitude       REAL NOT NULL,
	accuracy        REAL NOT NULL,
	fix_timestamp   TIMESTAMP NOT NULL,
	altitude        REAL,
	speed           REAL,
	queued_at       TIMESTAMP NOT NULL,
	status          TEXT NOT NULL DEFAULT 'queued',
	attempts        INTEGER NOT NULL DEFAULT 0,
	next_attempt_at TIMESTAMP NOT NULL DEFAULT '0001-01-01 00:00:00+00:00',
	last_error      TEXT NOT NULL DEFAULT '',
	seq             INTEGER -- enqueue order
);
CREATE INDEX IF NOT EXISTS idx_location_queue_status ON location_queue (status, next_attempt_at);
`

// NewSQLiteStore opens (creating if needed) the queue database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open queue database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize queue schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO location_queue (
			id, type, job_id, event, latitude, longitude, accuracy,
			fix_timestamp, altitude, speed, queued_at, status, attempts,
			next_attempt_at, last_error, seq
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM location_queue))
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.Type, e.JobID, string(e.Event),
		e.Location.Latitude, e.Location.Longitude, e.Location.Accuracy,
		e.Location.Timestamp, nullFloat(e.Location.Altitude), nullFloat(e.Location.Speed),
		e.QueuedAt, string(e.Status), e.Attempts, e.NextAttemptAt, e.LastError,
	)
	if err != nil {
		return fmt.Errorf("append queue entry: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT id, type, job_id, event, latitude, longitude, accuracy,
		       fix_timestamp, altitude, speed, queued_at, status, attempts,
		       next_attempt_at, last_error
		FROM location_queue
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list queue entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e               Entry
			event, status   string
			altitude, speed sql.NullFloat64
		)
		if err := rows.Scan(
			&e.ID, &e.Type, &e.JobID, &event,
			&e.Location.Latitude, &e.Location.Longitude, &e.Location.Accuracy,
			&e.Location.Timestamp, &altitude, &speed,
			&e.QueuedAt, &status, &e.Attempts, &e.NextAttemptAt, &e.LastError,
		); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		e.Event = EventKind(event)
		e.Status = EntryStatus(status)
		e.Location.Altitude = floatPtr(altitude)
		e.Location.Speed = floatPtr(speed)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Update implements Store.
func (s *SQLiteStore) Update(ctx context.Context, e Entry) error {
	query := `
		UPDATE location_queue
		SET status = ?, attempts = ?, next_attempt_at = ?, last_error = ?
		WHERE id = ?
	`
	tag, err := s.db.ExecContext(ctx, query,
		string(e.Status), e.Attempts, e.NextAttemptAt, e.LastError, e.ID)
	if err != nil {
		return fmt.Errorf("update queue entry: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Remove implements Store.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	tag, err := s.db.ExecContext(ctx, `DELETE FROM location_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove queue entry: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Len implements Store.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_queue`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count queue entries: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

var _ Store = (*SQLiteStore)(nil)
