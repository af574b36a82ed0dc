// Package store defines the schedule store contract shared by the remote REST
// client and the local Postgres backend.
package store

import (
	"context"
	"errors"

	"github.com/claude/liftboard/internal/models"
)

var (
	// ErrTransport wraps network and service failures of a store.
	ErrTransport = errors.New("store transport error")
	// ErrNotFound is returned when a schedule or exercise does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the store rejects the caller's credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// Schedules is the schedule collection of one user.
type Schedules interface {
	FetchSchedules(ctx context.Context) ([]models.Schedule, error)
	GetSchedule(ctx context.Context, id string) (models.Schedule, error)
	CreateSchedule(ctx context.Context, s models.Schedule) (models.Schedule, error)
	UpdateSchedule(ctx context.Context, id string, patch models.SchedulePatch) (models.Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
}

// Library is the exercise library.
type Library interface {
	ListExercises(ctx context.Context) ([]models.ExerciseDef, error)
	GetExercise(ctx context.Context, id string) (models.ExerciseDef, error)
	CreateExercise(ctx context.Context, e models.ExerciseDef) (models.ExerciseDef, error)
	UpdateExercise(ctx context.Context, id string, e models.ExerciseDef) (models.ExerciseDef, error)
	DeleteExercise(ctx context.Context, id string) error
}

// Store is everything the dashboard reads and writes.
type Store interface {
	Schedules
	Library
}

// Authenticator issues bearer tokens. Only the remote backend has one.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) (models.Session, error)
	Me(ctx context.Context) (models.User, error)
}

type contextKey int

const tokenKey contextKey = iota

// WithToken returns a context carrying the caller's bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token set by WithToken, if any.
func TokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey).(string)
	return tok
}
