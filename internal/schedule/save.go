package schedule

import (
	"context"
	"errors"

	"github.com/claude/liftboard/internal/models"
)

// Updater is the store operation needed to commit an edited schedule.
type Updater interface {
	UpdateSchedule(ctx context.Context, id string, patch models.SchedulePatch) (models.Schedule, error)
}

// Save commits the workouts of an edited schedule to the store, keyed by its
// ID. Store errors are returned unchanged.
func Save(ctx context.Context, st Updater, s models.Schedule) (models.Schedule, error) {
	if s.ID == "" {
		return models.Schedule{}, errors.New("schedule has no id")
	}
	workouts := s.Workouts
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return st.UpdateSchedule(ctx, s.ID, models.SchedulePatch{Workouts: workouts})
}
