package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftboard/internal/analytics"
	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/store"
)

type fakeSource struct {
	schedules []models.Schedule
	exercises []models.ExerciseDef
	err       error
}

func (f *fakeSource) FetchSchedules(ctx context.Context) ([]models.Schedule, error) {
	return f.schedules, f.err
}

func (f *fakeSource) GetSchedule(ctx context.Context, id string) (models.Schedule, error) {
	for _, s := range f.schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Schedule{}, fmt.Errorf("schedule %s: %w", id, store.ErrNotFound)
}

func (f *fakeSource) ListExercises(ctx context.Context) ([]models.ExerciseDef, error) {
	return f.exercises, f.err
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{
		ds: ds,
		deriver: analytics.New(analytics.Options{
			PRMode: analytics.PRRanked,
			Now:    func() time.Time { return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) },
		}),
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func sampleSource() *fakeSource {
	return &fakeSource{
		schedules: []models.Schedule{{
			ID:   "s1",
			Name: "Legs",
			Workouts: []models.Workout{
				{Day: "Monday", Exercises: []models.Exercise{{
					ExerciseName: "Back Squat",
					Sets:         []models.Set{{SetNumber: 1, Reps: 5, Weight: 100}},
				}}},
				{Day: "Thursday", Exercises: []models.Exercise{{
					ExerciseName: "Plank",
					Sets:         []models.Set{{SetNumber: 1, Reps: 1}},
				}}},
			},
		}},
		exercises: []models.ExerciseDef{
			{ID: "e1", Name: "Squat", Category: "Legs"},
			{ID: "e2", Name: "Bench Press", Category: "Chest"},
		},
	}
}

// TestNewRegistersTools verifies the server constructs and tool names are unique.
func TestNewRegistersTools(t *testing.T) {
	s := New(sampleSource(), analytics.New(analytics.Options{}), "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("New returned nil")
	}
	seen := map[string]bool{}
	for _, tool := range []mcp.Tool{toolGetDashboard, toolListSchedules, toolGetSchedule, toolGetMuscleGroups, toolGetRecentWorkouts, toolGetWeeklyVolume, toolListExercises} {
		if tool.Name == "" || seen[tool.Name] {
			t.Errorf("tool name %q empty or duplicated", tool.Name)
		}
		seen[tool.Name] = true
	}
}

// TestGetDashboard verifies the dashboard tool derives analytics from the source.
func TestGetDashboard(t *testing.T) {
	h := newHandlers(sampleSource())
	res, err := h.getDashboard(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}

	var dash analytics.Dashboard
	if err := json.Unmarshal([]byte(resultText(t, res)), &dash); err != nil {
		t.Fatal(err)
	}
	if dash.Stats.MonthlyWorkouts != 2 {
		t.Errorf("monthlyWorkouts = %d, want 2", dash.Stats.MonthlyWorkouts)
	}
	if dash.WeeklyVolume[0].Value != 500 {
		t.Errorf("monday volume = %v, want 500", dash.WeeklyVolume[0].Value)
	}
}

// TestGetRecentWorkoutsLimit verifies the limit argument.
func TestGetRecentWorkoutsLimit(t *testing.T) {
	h := newHandlers(sampleSource())
	res, _ := h.getRecentWorkouts(context.Background(), callRequest(map[string]any{"limit": float64(1)}))

	var recent []analytics.RecentWorkout
	if err := json.Unmarshal([]byte(resultText(t, res)), &recent); err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Errorf("got %d workouts, want 1", len(recent))
	}
}

// TestListSchedulesPounds verifies weights are converted for display.
func TestListSchedulesPounds(t *testing.T) {
	src := sampleSource()
	h := newHandlers(src)
	res, _ := h.listSchedules(context.Background(), callRequest(map[string]any{"unit": "lb"}))

	var schedules []models.Schedule
	if err := json.Unmarshal([]byte(resultText(t, res)), &schedules); err != nil {
		t.Fatal(err)
	}
	if w := schedules[0].Workouts[0].Exercises[0].Sets[0].Weight; w != 220.5 {
		t.Errorf("weight = %v lb, want 220.5", w)
	}
	if w := src.schedules[0].Workouts[0].Exercises[0].Sets[0].Weight; w != 100 {
		t.Errorf("source mutated: weight = %v", w)
	}

	res, _ = h.listSchedules(context.Background(), callRequest(map[string]any{"unit": "stone"}))
	if !res.IsError {
		t.Error("expected error result for unknown unit")
	}
}

// TestGetSchedule verifies lookup by id and the required argument.
func TestGetSchedule(t *testing.T) {
	h := newHandlers(sampleSource())

	res, _ := h.getSchedule(context.Background(), callRequest(map[string]any{"id": "s1"}))
	var s models.Schedule
	if err := json.Unmarshal([]byte(resultText(t, res)), &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "Legs" {
		t.Errorf("name = %q, want Legs", s.Name)
	}

	if res, _ := h.getSchedule(context.Background(), callRequest(nil)); !res.IsError {
		t.Error("expected error result without id")
	}
	if res, _ := h.getSchedule(context.Background(), callRequest(map[string]any{"id": "nope"})); !res.IsError {
		t.Error("expected error result for unknown id")
	}
}

// TestListExercisesCategory verifies case-insensitive category filtering.
func TestListExercisesCategory(t *testing.T) {
	h := newHandlers(sampleSource())
	res, _ := h.listExercises(context.Background(), callRequest(map[string]any{"category": "chest"}))

	var exercises []models.ExerciseDef
	if err := json.Unmarshal([]byte(resultText(t, res)), &exercises); err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 1 || exercises[0].Name != "Bench Press" {
		t.Errorf("exercises = %+v", exercises)
	}
}

// TestSourceError verifies data-source failures become tool errors, not protocol errors.
func TestSourceError(t *testing.T) {
	h := newHandlers(&fakeSource{err: errors.New("connection refused")})
	res, err := h.getMuscleGroups(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result")
	}
}

// TestMuscleCatalogResource verifies the catalog resource lists every group.
func TestMuscleCatalogResource(t *testing.T) {
	h := newHandlers(sampleSource())
	var req mcp.ReadResourceRequest
	req.Params.URI = "liftboard://muscle_catalog"

	contents, err := h.muscleCatalog(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text

	var groups []analytics.MuscleGroup
	if err := json.Unmarshal([]byte(text), &groups); err != nil {
		t.Fatal(err)
	}
	if len(groups) != 6 || groups[0].Name != "Chest" {
		t.Errorf("groups = %+v", groups)
	}
}
