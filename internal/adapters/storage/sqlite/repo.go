package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/gridcell/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// defaultListLimit caps list queries that pass no limit.
const defaultListLimit = 50

// Repository is the gesture journal backed by sqlite.
type Repository struct {
	db *sql.DB
}

// Open opens or creates the journal at path.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a private in-memory journal.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection would get its own empty database.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the journal schema.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			gesture_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			w INTEGER NOT NULL,
			h INTEGER NOT NULL,
			pixel_json TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_gesture_events_item_created_at ON gesture_events(item_id, created_at DESC, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_gesture_events_gesture ON gesture_events(gesture_id, id ASC);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	// Journals created before resize handles were recorded lack the column.
	if _, err := r.db.ExecContext(ctx, `ALTER TABLE gesture_events ADD COLUMN handle TEXT NOT NULL DEFAULT ''`); err != nil && !isDuplicateColumnErr(err) {
		return fmt.Errorf("migrate sqlite add gesture_events.handle: %w", err)
	}
	return nil
}

// AppendGestureEvent inserts one journal record.
func (r *Repository) AppendGestureEvent(ctx context.Context, event domain.GestureEvent) error {
	if strings.TrimSpace(event.ItemID) == "" {
		return domain.ErrInvalidID
	}
	pixelJSON, err := json.Marshal(event.Pixel)
	if err != nil {
		return fmt.Errorf("encode gesture_events.pixel_json: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO gesture_events(gesture_id, item_id, kind, x, y, w, h, pixel_json, handle, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.GestureID,
		event.ItemID,
		string(event.Kind),
		event.Rect.X,
		event.Rect.Y,
		event.Rect.W,
		event.Rect.H,
		string(pixelJSON),
		string(event.Handle),
		ts(normalizeEventTS(event.OccurredAt)),
	)
	return err
}

// ListItemGestureEvents returns the newest records for one item.
func (r *Repository) ListItemGestureEvents(ctx context.Context, itemID string, limit int) ([]domain.GestureEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, gesture_id, item_id, kind, x, y, w, h, pixel_json, handle, created_at
		FROM gesture_events
		WHERE item_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, itemID, limit)
	if err != nil {
		return nil, err
	}
	return scanGestureEvents(rows)
}

// ListRecentGestureEvents returns the newest records across all items.
func (r *Repository) ListRecentGestureEvents(ctx context.Context, limit int) ([]domain.GestureEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, gesture_id, item_id, kind, x, y, w, h, pixel_json, handle, created_at
		FROM gesture_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	return scanGestureEvents(rows)
}

// ListGestureEvents returns every record of one gesture in emission order.
func (r *Repository) ListGestureEvents(ctx context.Context, gestureID string) ([]domain.GestureEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, gesture_id, item_id, kind, x, y, w, h, pixel_json, handle, created_at
		FROM gesture_events
		WHERE gesture_id = ?
		ORDER BY id ASC
	`, gestureID)
	if err != nil {
		return nil, err
	}
	return scanGestureEvents(rows)
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanGestureEvents drains rows into events and closes them.
func scanGestureEvents(rows *sql.Rows) ([]domain.GestureEvent, error) {
	defer rows.Close()
	out := make([]domain.GestureEvent, 0)
	for rows.Next() {
		event, err := scanGestureEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// scanGestureEvent decodes one journal row.
func scanGestureEvent(s scanner) (domain.GestureEvent, error) {
	var (
		event      domain.GestureEvent
		kindRaw    string
		pixelRaw   string
		handleRaw  string
		createdRaw string
	)
	if err := s.Scan(
		&event.ID,
		&event.GestureID,
		&event.ItemID,
		&kindRaw,
		&event.Rect.X,
		&event.Rect.Y,
		&event.Rect.W,
		&event.Rect.H,
		&pixelRaw,
		&handleRaw,
		&createdRaw,
	); err != nil {
		return domain.GestureEvent{}, err
	}
	event.Kind = domain.GestureKind(kindRaw)
	event.Handle = domain.Handle(handleRaw)
	event.OccurredAt = parseTS(createdRaw)
	if strings.TrimSpace(pixelRaw) == "" {
		pixelRaw = "{}"
	}
	if err := json.Unmarshal([]byte(pixelRaw), &event.Pixel); err != nil {
		return domain.GestureEvent{}, fmt.Errorf("decode gesture_events.pixel_json: %w", err)
	}
	return event, nil
}

// normalizeEventTS ensures event timestamps are always populated and UTC-normalized.
func normalizeEventTS(in time.Time) time.Time {
	if in.IsZero() {
		return time.Now().UTC()
	}
	return in.UTC()
}

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

// isDuplicateColumnErr reports whether the expected condition is satisfied.
func isDuplicateColumnErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column name")
}
