// Package schedule edits the workout -> exercise -> set tree of a schedule.
//
// Every Editor operation is copy-on-write: it returns a new Schedule whose
// modified path (workouts slice, the touched workout's exercises, the touched
// exercise's sets) is freshly allocated, while untouched subtrees are shared
// with the input. Because no operation ever writes through a shared slice, the
// input schedule is never observed to change.
package schedule

import (
	"math"
	"strconv"
	"strings"

	"github.com/claude/liftboard/internal/models"
)

// DefaultReps is used when an Editor is created with a non-positive default.
const DefaultReps = 10

// NewExerciseName is the placeholder name given to added exercises.
const NewExerciseName = "New Exercise"

// Field names a Set attribute that UpdateSetField can change.
type Field string

const (
	FieldSetNumber Field = "setNumber"
	FieldReps      Field = "reps"
	FieldWeight    Field = "weight"
)

// Editor applies structural edits to a schedule.
type Editor struct {
	defaultReps int
	unit        Unit
}

// NewEditor returns an Editor that gives new sets defaultReps reps and reads
// weight input in unit.
func NewEditor(defaultReps int, unit Unit) Editor {
	if defaultReps <= 0 {
		defaultReps = DefaultReps
	}
	if unit == "" {
		unit = Kilograms
	}
	return Editor{defaultReps: defaultReps, unit: unit}
}

// WithUnit returns a copy of e that reads weight input in u.
func (e Editor) WithUnit(u Unit) Editor {
	if u != "" {
		e.unit = u
	}
	return e
}

// Unit is the display unit weight input is read in.
func (e Editor) Unit() Unit { return e.unit }

// NewSkeleton returns the schedule created by the "new schedule" action:
// one Monday workout with a single Bench Press set.
func (e Editor) NewSkeleton() models.Schedule {
	return models.Schedule{
		Name: "New Workout Schedule",
		Workouts: []models.Workout{{
			Day: "Monday",
			Exercises: []models.Exercise{{
				ExerciseName: "Bench Press",
				Sets:         []models.Set{{SetNumber: 1, Reps: e.defaultReps}},
			}},
		}},
	}
}

// AddExercise appends a "New Exercise" with one default set to workout w.
func (e Editor) AddExercise(s models.Schedule, w int) (models.Schedule, error) {
	return e.editWorkout(s, w, func(wo *models.Workout) error {
		exercises := make([]models.Exercise, len(wo.Exercises), len(wo.Exercises)+1)
		copy(exercises, wo.Exercises)
		wo.Exercises = append(exercises, models.Exercise{
			ExerciseName: NewExerciseName,
			Sets:         []models.Set{{SetNumber: 1, Reps: e.defaultReps}},
		})
		return nil
	})
}

// RemoveExercise deletes exercise x of workout w.
func (e Editor) RemoveExercise(s models.Schedule, w, x int) (models.Schedule, error) {
	return e.editWorkout(s, w, func(wo *models.Workout) error {
		if err := checkIndex("exercise", x, len(wo.Exercises)); err != nil {
			return err
		}
		exercises := make([]models.Exercise, 0, len(wo.Exercises)-1)
		exercises = append(exercises, wo.Exercises[:x]...)
		wo.Exercises = append(exercises, wo.Exercises[x+1:]...)
		return nil
	})
}

// RenameExercise replaces the name of exercise x. Any string, including the
// empty one, is accepted.
func (e Editor) RenameExercise(s models.Schedule, w, x int, name string) (models.Schedule, error) {
	return e.editExercise(s, w, x, func(ex *models.Exercise) error {
		ex.ExerciseName = name
		return nil
	})
}

// AddSet appends a default set numbered len(sets)+1 to exercise x.
func (e Editor) AddSet(s models.Schedule, w, x int) (models.Schedule, error) {
	return e.editExercise(s, w, x, func(ex *models.Exercise) error {
		sets := make([]models.Set, len(ex.Sets), len(ex.Sets)+1)
		copy(sets, ex.Sets)
		ex.Sets = append(sets, models.Set{SetNumber: len(ex.Sets) + 1, Reps: e.defaultReps})
		return nil
	})
}

// RemoveSet deletes set i of exercise x and renumbers the remaining sets 1..N.
func (e Editor) RemoveSet(s models.Schedule, w, x, i int) (models.Schedule, error) {
	return e.editExercise(s, w, x, func(ex *models.Exercise) error {
		if err := checkIndex("set", i, len(ex.Sets)); err != nil {
			return err
		}
		sets := make([]models.Set, 0, len(ex.Sets)-1)
		sets = append(sets, ex.Sets[:i]...)
		sets = append(sets, ex.Sets[i+1:]...)
		for n := range sets {
			sets[n].SetNumber = n + 1
		}
		ex.Sets = sets
		return nil
	})
}

// UpdateSetField sets one field of set i from raw user input.
//
// reps and weight fall back to 0 when value does not parse or is out of
// range; weight is read in the editor's unit and stored in kilograms.
// setNumber must be an integer >= 1 and is stored as given: direct edits
// never renumber.
func (e Editor) UpdateSetField(s models.Schedule, w, x, i int, field Field, value string) (models.Schedule, error) {
	switch field {
	case FieldSetNumber, FieldReps, FieldWeight:
	default:
		return models.Schedule{}, ErrUnknownField
	}

	return e.editExercise(s, w, x, func(ex *models.Exercise) error {
		if err := checkIndex("set", i, len(ex.Sets)); err != nil {
			return err
		}
		sets := make([]models.Set, len(ex.Sets))
		copy(sets, ex.Sets)

		switch field {
		case FieldSetNumber:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 1 {
				return ErrInvalidSetNumber
			}
			sets[i].SetNumber = n
		case FieldReps:
			sets[i].Reps = parseReps(value)
		case FieldWeight:
			kg := ToKilograms(parseNonNegative(value), e.unit)
			if math.IsInf(kg, 0) || math.IsNaN(kg) {
				kg = 0
			}
			sets[i].Weight = kg
		}
		ex.Sets = sets
		return nil
	})
}

// Clone returns a deep copy of s that shares no slices with it.
func Clone(s models.Schedule) models.Schedule {
	out := s
	if s.Workouts == nil {
		return out
	}
	out.Workouts = make([]models.Workout, len(s.Workouts))
	for wi, wo := range s.Workouts {
		if wo.PerformedAt != nil {
			t := *wo.PerformedAt
			wo.PerformedAt = &t
		}
		if wo.Exercises != nil {
			exercises := make([]models.Exercise, len(wo.Exercises))
			for xi, ex := range wo.Exercises {
				if ex.Sets != nil {
					ex.Sets = append([]models.Set(nil), ex.Sets...)
				}
				exercises[xi] = ex
			}
			wo.Exercises = exercises
		}
		out.Workouts[wi] = wo
	}
	return out
}

func (e Editor) editWorkout(s models.Schedule, w int, fn func(*models.Workout) error) (models.Schedule, error) {
	if err := checkIndex("workout", w, len(s.Workouts)); err != nil {
		return models.Schedule{}, err
	}
	workouts := make([]models.Workout, len(s.Workouts))
	copy(workouts, s.Workouts)
	if err := fn(&workouts[w]); err != nil {
		return models.Schedule{}, err
	}
	s.Workouts = workouts
	return s, nil
}

func (e Editor) editExercise(s models.Schedule, w, x int, fn func(*models.Exercise) error) (models.Schedule, error) {
	return e.editWorkout(s, w, func(wo *models.Workout) error {
		if err := checkIndex("exercise", x, len(wo.Exercises)); err != nil {
			return err
		}
		exercises := make([]models.Exercise, len(wo.Exercises))
		copy(exercises, wo.Exercises)
		if err := fn(&exercises[x]); err != nil {
			return err
		}
		wo.Exercises = exercises
		return nil
	})
}

func checkIndex(kind string, i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Kind: kind, Index: i, Len: n}
	}
	return nil
}

// parseReps truncates a non-negative number to whole reps. Counts that do not
// fit an int32 become 0 like any other unusable input.
func parseReps(value string) int {
	v := parseNonNegative(value)
	if v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// parseNonNegative reads a number the way a form field would: anything that
// is not a finite, non-negative number becomes 0.
func parseNonNegative(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
