package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	drepo "PulseBoard/internal/domain/repository"
	applogger "PulseBoard/pkg/logger"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder keeps table refreshes and render cycles in a SQLite file.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *applogger.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, l *applogger.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: l}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	l.Info("sqlite recorder opened", applogger.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS table_refreshes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			assets    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_table_ts ON table_refreshes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS render_cycles (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			cause       TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			asset       TEXT,
			resolution  TEXT,
			strategy    TEXT,
			points      INTEGER,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_render_ts ON render_cycles(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTable(ctx context.Context, ev drepo.TableEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO table_refreshes
		(timestamp, row_count, assets)
		VALUES (?,?,?)`,
		ev.At.UnixMilli(), ev.Rows, strings.Join(ev.Assets, ","),
	)
	return err
}

func (r *SQLiteRecorder) RecordRender(ctx context.Context, ev drepo.RenderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO render_cycles
		(timestamp, cause, outcome, asset, resolution, strategy, points, duration_ms, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		ev.At.UnixMilli(), ev.Trigger, ev.Outcome, ev.Asset, ev.Resolution,
		ev.Strategy, ev.Points, ev.Duration.Milliseconds(), ev.Err,
	)
	return err
}

// RecentRenders returns up to limit render cycles, newest first.
func (r *SQLiteRecorder) RecentRenders(ctx context.Context, limit int) ([]drepo.RenderEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT timestamp, cause, outcome, asset, resolution,
		strategy, points, duration_ms, error
		FROM render_cycles ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query renders: %w", err)
	}
	defer rows.Close()

	out := make([]drepo.RenderEvent, 0, limit)
	for rows.Next() {
		var (
			ev     drepo.RenderEvent
			tsMs   int64
			durMs  int64
			errStr sql.NullString
		)
		if err := rows.Scan(&tsMs, &ev.Trigger, &ev.Outcome, &ev.Asset, &ev.Resolution,
			&ev.Strategy, &ev.Points, &durMs, &errStr); err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		ev.At = time.UnixMilli(tsMs).UTC()
		ev.Duration = time.Duration(durMs) * time.Millisecond
		ev.Err = errStr.String
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
