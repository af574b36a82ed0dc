package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/store"
)

const exerciseColumns = `id::text, name, category, equipment, difficulty, created_at`

func scanExercise(row pgx.Row) (models.ExerciseDef, error) {
	var e models.ExerciseDef
	err := row.Scan(&e.ID, &e.Name, &e.Category, &e.Equipment, &e.Difficulty, &e.CreatedAt)
	return e, err
}

// ListExercises returns the exercise library sorted by name.
func (db *DB) ListExercises(ctx context.Context) ([]models.ExerciseDef, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises ORDER BY lower(name)`)
	if err != nil {
		return nil, dbError("querying exercises", err)
	}
	defer rows.Close()

	out := []models.ExerciseDef{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, dbError("scanning exercise", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("reading rows", err)
	}
	return out, nil
}

func (db *DB) GetExercise(ctx context.Context, id string) (models.ExerciseDef, error) {
	if !validID(id) {
		return models.ExerciseDef{}, fmt.Errorf("exercise %s: %w", id, store.ErrNotFound)
	}
	e, err := scanExercise(db.Pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ExerciseDef{}, fmt.Errorf("exercise %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.ExerciseDef{}, dbError("querying exercise", err)
	}
	return e, nil
}

func (db *DB) CreateExercise(ctx context.Context, e models.ExerciseDef) (models.ExerciseDef, error) {
	created, err := scanExercise(db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, name, category, equipment, difficulty, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+exerciseColumns,
		uuid.NewString(), e.Name, e.Category, e.Equipment, e.Difficulty, time.Now().UTC()))
	if err != nil {
		return models.ExerciseDef{}, dbError("inserting exercise", err)
	}
	return created, nil
}

func (db *DB) UpdateExercise(ctx context.Context, id string, e models.ExerciseDef) (models.ExerciseDef, error) {
	if !validID(id) {
		return models.ExerciseDef{}, fmt.Errorf("exercise %s: %w", id, store.ErrNotFound)
	}
	updated, err := scanExercise(db.Pool.QueryRow(ctx,
		`UPDATE exercises SET name = $2, category = $3, equipment = $4, difficulty = $5
		 WHERE id = $1
		 RETURNING `+exerciseColumns,
		id, e.Name, e.Category, e.Equipment, e.Difficulty))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ExerciseDef{}, fmt.Errorf("exercise %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.ExerciseDef{}, dbError("updating exercise", err)
	}
	return updated, nil
}

func (db *DB) DeleteExercise(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("exercise %s: %w", id, store.ErrNotFound)
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return dbError("deleting exercise", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("exercise %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// LoadExerciseSeed reads an exercise library from a TOML file of
// [[exercise]] tables. Entries without a name are skipped.
func LoadExerciseSeed(path string) ([]models.ExerciseDefTOML, error) {
	var imp models.ExerciseImport
	if _, err := toml.DecodeFile(path, &imp); err != nil {
		return nil, fmt.Errorf("reading exercise seed %s: %w", path, err)
	}
	out := make([]models.ExerciseDefTOML, 0, len(imp.Exercises))
	for _, e := range imp.Exercises {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// SeedExercises fills an empty exercise library from the TOML file at path.
// A library that already has rows is left untouched. Returns rows inserted.
func (db *DB) SeedExercises(ctx context.Context, path string) (int64, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n); err != nil {
		return 0, dbError("counting exercises", err)
	}
	if n > 0 {
		return 0, nil
	}

	seed, err := LoadExerciseSeed(path)
	if err != nil {
		return 0, err
	}
	if len(seed) == 0 {
		return 0, nil
	}

	query, args := seedInsert(seed, time.Now().UTC())
	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, dbError("seeding exercises", err)
	}
	return tag.RowsAffected(), nil
}

// seedInsert builds one multi-row insert for the seed entries.
func seedInsert(seed []models.ExerciseDefTOML, now time.Time) (string, []any) {
	query := `INSERT INTO exercises (id, name, category, equipment, difficulty, created_at) VALUES `
	args := make([]any, 0, len(seed)*6)
	valueStrings := make([]string, 0, len(seed))

	for i, e := range seed {
		base := i * 6
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args, uuid.NewString(), e.Name, e.Category, e.Equipment, e.Difficulty, now)
	}

	return query + strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING", args
}
