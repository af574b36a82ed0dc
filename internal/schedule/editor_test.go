package schedule_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushDay() models.Schedule {
	return models.Schedule{
		ID:   "sched-1",
		Name: "Push Pull",
		Workouts: []models.Workout{
			{
				Day: "Monday",
				Exercises: []models.Exercise{
					{ExerciseName: "Bench Press", Sets: []models.Set{
						{SetNumber: 1, Reps: 8, Weight: 80},
						{SetNumber: 2, Reps: 8, Weight: 80},
						{SetNumber: 3, Reps: 6, Weight: 85},
					}},
					{ExerciseName: "Dips", Sets: []models.Set{{SetNumber: 1, Reps: 12}}},
				},
			},
			{Day: "Wednesday"},
		},
	}
}

func TestAddExercise(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	orig := pushDay()

	got, err := ed.AddExercise(orig, 0)
	require.NoError(t, err)
	require.Len(t, got.Workouts[0].Exercises, 3)
	added := got.Workouts[0].Exercises[2]
	assert.Equal(t, schedule.NewExerciseName, added.ExerciseName)
	assert.Equal(t, []models.Set{{SetNumber: 1, Reps: 10, Weight: 0}}, added.Sets)

	// input untouched
	assert.Len(t, orig.Workouts[0].Exercises, 2)
	assert.Equal(t, "sched-1", got.ID)
}

func TestAddExerciseToEmptyWorkout(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	got, err := ed.AddExercise(pushDay(), 1)
	require.NoError(t, err)
	require.Len(t, got.Workouts[1].Exercises, 1)
}

func TestAddExerciseOutOfRange(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	_, err := ed.AddExercise(pushDay(), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrIndexOutOfRange))

	var ie *schedule.IndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "workout", ie.Kind)
	assert.Equal(t, 2, ie.Index)
	assert.Equal(t, 2, ie.Len)
}

func TestAddThenRemoveExerciseRoundTrip(t *testing.T) {
	ed := schedule.NewEditor(12, schedule.Kilograms)
	orig := pushDay()

	added, err := ed.AddExercise(orig, 0)
	require.NoError(t, err)
	back, err := ed.RemoveExercise(added, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, pushDay(), back)
	assert.Equal(t, pushDay(), orig)
}

func TestRemoveExercise(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	got, err := ed.RemoveExercise(pushDay(), 0, 0)
	require.NoError(t, err)
	require.Len(t, got.Workouts[0].Exercises, 1)
	assert.Equal(t, "Dips", got.Workouts[0].Exercises[0].ExerciseName)

	_, err = ed.RemoveExercise(pushDay(), 1, 0)
	assert.ErrorIs(t, err, schedule.ErrIndexOutOfRange)
}

func TestRenameExerciseAcceptsEmpty(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	got, err := ed.RenameExercise(pushDay(), 0, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "", got.Workouts[0].Exercises[1].ExerciseName)

	got, err = ed.RenameExercise(got, 0, 1, "Weighted Dips")
	require.NoError(t, err)
	assert.Equal(t, "Weighted Dips", got.Workouts[0].Exercises[1].ExerciseName)
}

func TestAddSetNumbering(t *testing.T) {
	ed := schedule.NewEditor(12, schedule.Kilograms)
	got, err := ed.AddSet(pushDay(), 0, 0)
	require.NoError(t, err)
	sets := got.Workouts[0].Exercises[0].Sets
	require.Len(t, sets, 4)
	assert.Equal(t, models.Set{SetNumber: 4, Reps: 12, Weight: 0}, sets[3])
}

func TestRemoveSetRenumbers(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	got, err := ed.RemoveSet(pushDay(), 0, 0, 0)
	require.NoError(t, err)
	sets := got.Workouts[0].Exercises[0].Sets
	require.Len(t, sets, 2)
	assert.Equal(t, models.Set{SetNumber: 1, Reps: 8, Weight: 80}, sets[0])
	assert.Equal(t, models.Set{SetNumber: 2, Reps: 6, Weight: 85}, sets[1])

	// the original keeps its numbering
	orig := pushDay()
	assert.Equal(t, 3, orig.Workouts[0].Exercises[0].Sets[2].SetNumber)
}

func TestAddRemoveSetSequenceKeepsNumbering(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	s := pushDay()

	ops := []struct {
		add   bool
		index int
	}{
		{add: true}, {add: true}, {add: false, index: 1}, {add: true},
		{add: false, index: 0}, {add: false, index: 3}, {add: true}, {add: false, index: 2},
	}

	var err error
	for step, op := range ops {
		if op.add {
			s, err = ed.AddSet(s, 0, 0)
		} else {
			s, err = ed.RemoveSet(s, 0, 0, op.index)
		}
		require.NoError(t, err, "step %d", step)

		if !op.add {
			for i, set := range s.Workouts[0].Exercises[0].Sets {
				assert.Equal(t, i+1, set.SetNumber, "step %d set %d", step, i)
			}
		}
	}
}

func TestRemoveSetOutOfRange(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	_, err := ed.RemoveSet(pushDay(), 0, 1, 1)
	var ie *schedule.IndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "set", ie.Kind)

	_, err = ed.RemoveSet(pushDay(), 0, 5, 0)
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "exercise", ie.Kind)
}

func TestUpdateSetFieldReps(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)

	tests := []struct {
		value string
		want  int
	}{
		{"15", 15},
		{" 7 ", 7},
		{"abc", 0},
		{"", 0},
		{"-3", 0},
		{"9.7", 9},
		{"1e20", 0},
		{"9999999999", 0},
		{"NaN", 0},
	}
	for _, tt := range tests {
		got, err := ed.UpdateSetField(pushDay(), 0, 0, 1, schedule.FieldReps, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Workouts[0].Exercises[0].Sets[1].Reps, "value %q", tt.value)
	}
}

func TestUpdateSetFieldWeightKilograms(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	got, err := ed.UpdateSetField(pushDay(), 0, 0, 0, schedule.FieldWeight, "82.5")
	require.NoError(t, err)
	assert.Equal(t, 82.5, got.Workouts[0].Exercises[0].Sets[0].Weight)

	got, err = ed.UpdateSetField(pushDay(), 0, 0, 0, schedule.FieldWeight, "heavy")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Workouts[0].Exercises[0].Sets[0].Weight)
}

// TestUpdateSetFieldHugeWeight verifies extreme input never stores a weight
// that cannot be encoded.
func TestUpdateSetFieldHugeWeight(t *testing.T) {
	for _, unit := range []schedule.Unit{schedule.Kilograms, schedule.Pounds} {
		ed := schedule.NewEditor(10, unit)
		for _, value := range []string{"1e308", "1.7e308", "1e309", "Inf"} {
			got, err := ed.UpdateSetField(pushDay(), 0, 0, 0, schedule.FieldWeight, value)
			require.NoError(t, err)

			w := got.Workouts[0].Exercises[0].Sets[0].Weight
			assert.False(t, math.IsInf(w, 0) || math.IsNaN(w), "%s %s stored %v", value, unit, w)
			assert.GreaterOrEqual(t, w, 0.0)
			_, err = json.Marshal(got)
			assert.NoError(t, err, "%s %s", value, unit)
		}
	}
}

func TestUpdateSetFieldWeightPounds(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Pounds)

	for _, lb := range []float64{45, 135, 225, 100, 12.5} {
		got, err := ed.UpdateSetField(pushDay(), 0, 0, 0, schedule.FieldWeight, formatFloat(lb))
		require.NoError(t, err)

		stored := got.Workouts[0].Exercises[0].Sets[0].Weight
		assert.InDelta(t, math.Round(lb*0.453592*10)/10, stored, 1e-9, "lb %v", lb)

		back := schedule.FromKilograms(stored, schedule.Pounds)
		assert.InDelta(t, lb, back, 0.11, "lb %v", lb)
	}
}

func TestUpdateSetFieldSetNumberDoesNotRenumber(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	got, err := ed.UpdateSetField(pushDay(), 0, 0, 0, schedule.FieldSetNumber, "7")
	require.NoError(t, err)
	sets := got.Workouts[0].Exercises[0].Sets
	assert.Equal(t, 7, sets[0].SetNumber)
	assert.Equal(t, 2, sets[1].SetNumber)
	assert.Equal(t, 3, sets[2].SetNumber)

	_, err = ed.UpdateSetField(pushDay(), 0, 0, 0, schedule.FieldSetNumber, "first")
	assert.ErrorIs(t, err, schedule.ErrInvalidSetNumber)
	_, err = ed.UpdateSetField(pushDay(), 0, 0, 0, schedule.FieldSetNumber, "0")
	assert.ErrorIs(t, err, schedule.ErrInvalidSetNumber)
}

func TestUpdateSetFieldUnknownField(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	_, err := ed.UpdateSetField(pushDay(), 0, 0, 0, schedule.Field("rpe"), "8")
	assert.ErrorIs(t, err, schedule.ErrUnknownField)
}

func TestEditsDoNotAlias(t *testing.T) {
	ed := schedule.NewEditor(10, schedule.Kilograms)
	orig := pushDay()

	got, err := ed.UpdateSetField(orig, 0, 0, 0, schedule.FieldReps, "20")
	require.NoError(t, err)
	got.Workouts[0].Exercises[0].Sets[1].Reps = 99
	got.Workouts[0].Exercises[0].ExerciseName = "changed"

	assert.Equal(t, pushDay(), orig)
}

func TestCloneIsDeep(t *testing.T) {
	orig := pushDay()
	c := schedule.Clone(orig)
	require.Equal(t, orig, c)

	c.Workouts[0].Exercises[0].Sets[0].Weight = 1
	c.Workouts[0].Day = "Sunday"
	assert.Equal(t, pushDay(), orig)
}

func TestNewSkeleton(t *testing.T) {
	s := schedule.NewEditor(0, "").NewSkeleton()
	assert.Equal(t, "New Workout Schedule", s.Name)
	require.Len(t, s.Workouts, 1)
	assert.Equal(t, "Monday", s.Workouts[0].Day)
	require.Len(t, s.Workouts[0].Exercises, 1)
	assert.Equal(t, "Bench Press", s.Workouts[0].Exercises[0].ExerciseName)
	assert.Equal(t, []models.Set{{SetNumber: 1, Reps: schedule.DefaultReps}}, s.Workouts[0].Exercises[0].Sets)
}

type fakeUpdater struct {
	id    string
	patch models.SchedulePatch
	err   error
}

func (f *fakeUpdater) UpdateSchedule(_ context.Context, id string, patch models.SchedulePatch) (models.Schedule, error) {
	f.id, f.patch = id, patch
	if f.err != nil {
		return models.Schedule{}, f.err
	}
	return models.Schedule{ID: id, Workouts: patch.Workouts}, nil
}

func TestSaveSendsWorkouts(t *testing.T) {
	up := &fakeUpdater{}
	s := pushDay()

	got, err := schedule.Save(context.Background(), up, s)
	require.NoError(t, err)
	assert.Equal(t, "sched-1", up.id)
	assert.Nil(t, up.patch.Name)
	assert.Equal(t, s.Workouts, up.patch.Workouts)
	assert.Equal(t, s.Workouts, got.Workouts)
}

func TestSaveEmptyWorkoutsStillSent(t *testing.T) {
	up := &fakeUpdater{}
	_, err := schedule.Save(context.Background(), up, models.Schedule{ID: "x"})
	require.NoError(t, err)
	require.NotNil(t, up.patch.Workouts)
	assert.Empty(t, up.patch.Workouts)
}

func TestSavePropagatesStoreError(t *testing.T) {
	boom := errors.New("boom")
	_, err := schedule.Save(context.Background(), &fakeUpdater{err: boom}, pushDay())
	assert.ErrorIs(t, err, boom)

	_, err = schedule.Save(context.Background(), &fakeUpdater{}, models.Schedule{})
	assert.Error(t, err)
}
