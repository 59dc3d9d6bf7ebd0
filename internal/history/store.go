// Package history persists probe outcomes as an audit trail. Records are
// write-once and only ever read back for operator inspection; capability
// answers are never served from here.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/emeprobe/emeprobe/internal/drm"
)

// Record is one persisted probe outcome.
type Record struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	KeySystem     string    `json:"keySystem"`
	Supported     bool      `json:"isSupported"`
	SecurityLevel string    `json:"securityLevel,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// Store is a SQLite-backed probe audit trail.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS probes (
	id             TEXT PRIMARY KEY,
	created_at     INTEGER NOT NULL,
	key_system     TEXT NOT NULL,
	supported      INTEGER NOT NULL,
	security_level TEXT NOT NULL DEFAULT '',
	error          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_probes_created_at ON probes(created_at DESC);
`

// Open opens (and if needed initializes) the store at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// SQLite allows a single writer; serialize access through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one probe outcome. Satisfies probe.Recorder.
func (s *Store) Record(ctx context.Context, r drm.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO probes (id, created_at, key_system, supported, security_level, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		time.Now().UTC().UnixMilli(),
		r.KeySystem,
		boolToInt(r.Supported),
		r.SecurityLevel,
		r.Error,
	)
	if err != nil {
		return fmt.Errorf("history: insert probe: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, key_system, supported, security_level, error
		 FROM probes ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec       Record
			createdAt int64
			supported int
		)
		if err := rows.Scan(&rec.ID, &createdAt, &rec.KeySystem, &supported, &rec.SecurityLevel, &rec.Error); err != nil {
			return nil, fmt.Errorf("history: scan record: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdAt).UTC()
		rec.Supported = supported != 0
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate records: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
