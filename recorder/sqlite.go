package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cosmossdk.io/log"
	_ "modernc.org/sqlite"

	"github.com/openalpha/supercluster/app"
)

// MaxRecent caps a single Recent query
const MaxRecent = 1000

// SQLiteRecorder persists events to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger log.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger log.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// API reads run alongside writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.With("module", "recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			height      INTEGER NOT NULL,
			timestamp   INTEGER NOT NULL,
			type        TEXT NOT NULL,
			attributes  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_height ON events(height)`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON events(type)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// Record inserts events in one transaction
func (r *SQLiteRecorder) Record(events []app.Event) error {
	if len(events) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO events (height, timestamp, type, attributes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		attrs, err := json.Marshal(ev.Attributes)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode attributes: %w", err)
		}
		if _, err := stmt.Exec(ev.Height, ev.Time.UnixNano(), ev.Type, string(attrs)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", ev.Type, err)
		}
	}
	return tx.Commit()
}

// OnEvents records events, logging failures. Listener errors cannot undo a
// committed operation.
func (r *SQLiteRecorder) OnEvents(events []app.Event) {
	if err := r.Record(events); err != nil {
		r.logger.Error("failed to record events", "count", len(events), "error", err)
	}
}

// Recent returns the newest events first
func (r *SQLiteRecorder) Recent(limit int, eventType string) ([]app.Event, error) {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}

	var (
		rows *sql.Rows
		err  error
	)
	if eventType == "" {
		rows, err = r.db.Query(
			`SELECT height, timestamp, type, attributes FROM events ORDER BY id DESC LIMIT ?`, limit)
	} else {
		rows, err = r.db.Query(
			`SELECT height, timestamp, type, attributes FROM events WHERE type = ? ORDER BY id DESC LIMIT ?`,
			eventType, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []app.Event
	for rows.Next() {
		var (
			ev    app.Event
			ts    int64
			attrs string
		)
		if err := rows.Scan(&ev.Height, &ts, &ev.Type, &attrs); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &ev.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
		ev.Time = time.Unix(0, ts).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Close closes the database
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
