package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/store"
)

const scheduleColumns = `id::text, name, workouts, created_at`

func scanSchedule(row pgx.Row) (models.Schedule, error) {
	var (
		s    models.Schedule
		body []byte
	)
	if err := row.Scan(&s.ID, &s.Name, &body, &s.CreatedAt); err != nil {
		return models.Schedule{}, err
	}
	if err := json.Unmarshal(body, &s.Workouts); err != nil {
		return models.Schedule{}, fmt.Errorf("%w: workouts of %s: %v", errDecode, s.ID, err)
	}
	if s.Workouts == nil {
		s.Workouts = []models.Workout{}
	}
	return s, nil
}

// FetchSchedules returns every schedule, oldest first.
func (db *DB) FetchSchedules(ctx context.Context) ([]models.Schedule, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+scheduleColumns+` FROM schedules ORDER BY created_at, id`)
	if err != nil {
		return nil, dbError("querying schedules", err)
	}
	defer rows.Close()

	out := []models.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, dbError("scanning schedule", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("reading rows", err)
	}
	return out, nil
}

// GetSchedule returns one schedule by id.
func (db *DB) GetSchedule(ctx context.Context, id string) (models.Schedule, error) {
	if !validID(id) {
		return models.Schedule{}, fmt.Errorf("schedule %s: %w", id, store.ErrNotFound)
	}
	s, err := scanSchedule(db.Pool.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Schedule{}, fmt.Errorf("schedule %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.Schedule{}, dbError("querying schedule", err)
	}
	return s, nil
}

// CreateSchedule inserts s under a fresh id.
func (db *DB) CreateSchedule(ctx context.Context, s models.Schedule) (models.Schedule, error) {
	workouts := s.Workouts
	if workouts == nil {
		workouts = []models.Workout{}
	}
	body, err := json.Marshal(workouts)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("encoding workouts: %w", err)
	}

	created, err := scanSchedule(db.Pool.QueryRow(ctx,
		`INSERT INTO schedules (id, name, workouts, created_at)
		 VALUES ($1, $2, $3::jsonb, $4)
		 RETURNING `+scheduleColumns,
		uuid.NewString(), s.Name, string(body), time.Now().UTC()))
	if err != nil {
		return models.Schedule{}, dbError("inserting schedule", err)
	}
	return created, nil
}

// UpdateSchedule applies the non-nil fields of patch.
func (db *DB) UpdateSchedule(ctx context.Context, id string, patch models.SchedulePatch) (models.Schedule, error) {
	if !validID(id) {
		return models.Schedule{}, fmt.Errorf("schedule %s: %w", id, store.ErrNotFound)
	}

	var workouts *string
	if patch.Workouts != nil {
		body, err := json.Marshal(patch.Workouts)
		if err != nil {
			return models.Schedule{}, fmt.Errorf("encoding workouts: %w", err)
		}
		str := string(body)
		workouts = &str
	}

	s, err := scanSchedule(db.Pool.QueryRow(ctx,
		`UPDATE schedules
		 SET name = COALESCE($2, name),
		     workouts = COALESCE($3::jsonb, workouts),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+scheduleColumns,
		id, patch.Name, workouts))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Schedule{}, fmt.Errorf("schedule %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.Schedule{}, dbError("updating schedule", err)
	}
	return s, nil
}

// DeleteSchedule removes a schedule.
func (db *DB) DeleteSchedule(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("schedule %s: %w", id, store.ErrNotFound)
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return dbError("deleting schedule", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s: %w", id, store.ErrNotFound)
	}
	return nil
}
