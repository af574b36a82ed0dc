package mcp

import (
	"context"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/remote"
	"github.com/claude/liftboard/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and *remote.Client (REST API) satisfy this interface.
type DataSource interface {
	FetchSchedules(ctx context.Context) ([]models.Schedule, error)
	GetSchedule(ctx context.Context, id string) (models.Schedule, error)
	ListExercises(ctx context.Context) ([]models.ExerciseDef, error)
}

// Compile-time checks.
var (
	_ DataSource = (*storage.DB)(nil)
	_ DataSource = (*remote.Client)(nil)
)
