// Package drafts buffers schedules that are being edited. A draft exists from
// the moment an edit session opens until it is saved or discarded; the
// schedule store never sees intermediate states.
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
	"github.com/claude/liftboard/internal/store"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Draft is one open edit session.
type Draft struct {
	ID         string          `json:"id"`
	ScheduleID string          `json:"scheduleId"`
	Unit       schedule.Unit   `json:"unit"`
	Schedule   models.Schedule `json:"schedule"`
	OpenedAt   time.Time       `json:"openedAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// DB stores drafts in a local SQLite file.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the draft database at dir/drafts.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating drafts dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "drafts.db"))
	if err != nil {
		return nil, fmt.Errorf("opening drafts db: %w", err)
	}
	// a single connection serializes writers
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS drafts (
		id          TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL,
		unit        TEXT NOT NULL,
		body        TEXT NOT NULL,
		opened_at   TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating drafts table: %w", err)
	}

	return &DB{db: db, now: time.Now}, nil
}

// Create opens an edit session on an independent copy of s.
func (d *DB) Create(ctx context.Context, s models.Schedule, unit schedule.Unit) (Draft, error) {
	now := d.now().UTC()
	draft := Draft{
		ID:         uuid.NewString(),
		ScheduleID: s.ID,
		Unit:       unit,
		Schedule:   schedule.Clone(s),
		OpenedAt:   now,
		UpdatedAt:  now,
	}

	body, err := json.Marshal(draft.Schedule)
	if err != nil {
		return Draft{}, fmt.Errorf("encoding draft: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO drafts (id, schedule_id, unit, body, opened_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		draft.ID, draft.ScheduleID, string(draft.Unit), string(body),
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return Draft{}, fmt.Errorf("inserting draft: %w", err)
	}
	return draft, nil
}

// rowQuerier is satisfied by *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Get loads a draft. Missing drafts return an error matching store.ErrNotFound.
func (d *DB) Get(ctx context.Context, id string) (Draft, error) {
	return get(ctx, d.db, id)
}

func get(ctx context.Context, q rowQuerier, id string) (Draft, error) {
	var (
		draft               Draft
		unit, body          string
		openedAt, updatedAt string
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, schedule_id, unit, body, opened_at, updated_at FROM drafts WHERE id = ?`, id,
	).Scan(&draft.ID, &draft.ScheduleID, &unit, &body, &openedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, fmt.Errorf("draft %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return Draft{}, fmt.Errorf("querying draft: %w", err)
	}

	draft.Unit = schedule.Unit(unit)
	if err := json.Unmarshal([]byte(body), &draft.Schedule); err != nil {
		return Draft{}, fmt.Errorf("decoding draft %s: %w", id, err)
	}
	if draft.OpenedAt, err = time.Parse(timeLayout, openedAt); err != nil {
		return Draft{}, fmt.Errorf("parsing draft opened_at: %w", err)
	}
	if draft.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return Draft{}, fmt.Errorf("parsing draft updated_at: %w", err)
	}
	return draft, nil
}

// Update replaces the buffered schedule of an open draft.
func (d *DB) Update(ctx context.Context, id string, s models.Schedule) (Draft, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return Draft{}, fmt.Errorf("encoding draft: %w", err)
	}
	now := d.now().UTC()
	res, err := d.db.ExecContext(ctx,
		`UPDATE drafts SET body = ?, updated_at = ? WHERE id = ?`,
		string(body), now.Format(timeLayout), id,
	)
	if err != nil {
		return Draft{}, fmt.Errorf("updating draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Draft{}, fmt.Errorf("draft %s: %w", id, store.ErrNotFound)
	}
	return d.Get(ctx, id)
}

// Modify reads a draft, applies fn and stores the result in one transaction,
// so concurrent edits of the same draft are applied one after another. fn must
// not call back into d. If fn fails the draft is left unchanged.
func (d *DB) Modify(ctx context.Context, id string, fn func(Draft) (models.Schedule, error)) (Draft, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return Draft{}, fmt.Errorf("beginning draft transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	draft, err := get(ctx, tx, id)
	if err != nil {
		return Draft{}, err
	}
	next, err := fn(draft)
	if err != nil {
		return Draft{}, err
	}

	body, err := json.Marshal(next)
	if err != nil {
		return Draft{}, fmt.Errorf("encoding draft: %w", err)
	}
	now := d.now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE drafts SET body = ?, updated_at = ? WHERE id = ?`,
		string(body), now.Format(timeLayout), id,
	); err != nil {
		return Draft{}, fmt.Errorf("updating draft: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Draft{}, fmt.Errorf("committing draft: %w", err)
	}

	draft.Schedule = next
	draft.UpdatedAt, _ = time.Parse(timeLayout, now.Format(timeLayout))
	return draft, nil
}

// Delete closes a draft. Deleting a missing draft is not an error.
func (d *DB) Delete(ctx context.Context, id string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}

// Count returns the number of open drafts.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting drafts: %w", err)
	}
	return n, nil
}

// PurgeIdle deletes drafts not updated since cutoff and returns how many.
func (d *DB) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM drafts WHERE updated_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("purging drafts: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the draft database.
func (d *DB) Close() error {
	return d.db.Close()
}
