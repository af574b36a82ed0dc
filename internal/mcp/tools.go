package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
)

// --- Tool definitions ---

var toolGetDashboard = mcp.NewTool("get_dashboard",
	mcp.WithDescription("Full dashboard: headline stats, muscle-group radar, recent workouts, and weekly volume derived from all schedules."),
)

var toolListSchedules = mcp.NewTool("list_schedules",
	mcp.WithDescription("List workout schedules with their workouts, exercises and sets. Weights are in kilograms unless unit is set."),
	mcp.WithString("unit", mcp.Description("Weight unit for the response. Defaults to kg."), mcp.Enum("kg", "lb")),
)

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Get one workout schedule by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Schedule id")),
	mcp.WithString("unit", mcp.Description("Weight unit for the response. Defaults to kg."), mcp.Enum("kg", "lb")),
)

var toolGetMuscleGroups = mcp.NewTool("get_muscle_groups",
	mcp.WithDescription("Muscle-group balance scores (0-100) based on how often each group's exercises appear across all schedules."),
)

var toolGetRecentWorkouts = mcp.NewTool("get_recent_workouts",
	mcp.WithDescription("Most recent workouts with volume, intensity, estimated duration and personal-record markers."),
	mcp.WithNumber("limit", mcp.Description("Maximum workouts to return. Defaults to the server setting.")),
)

var toolGetWeeklyVolume = mcp.NewTool("get_weekly_volume",
	mcp.WithDescription("Training volume (reps x kg) per weekday, Monday to Sunday."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise library with category, equipment and difficulty."),
	mcp.WithString("category", mcp.Description("Filter by category (case-insensitive, e.g. 'Chest')")),
)

// --- Tool handlers ---

func (h *handlers) fetch(ctx context.Context) ([]models.Schedule, *mcp.CallToolResult) {
	schedules, err := h.ds.FetchSchedules(ctx)
	if err != nil {
		h.log.Error("fetching schedules", "error", err)
		return nil, mcp.NewToolResultError("query failed: " + err.Error())
	}
	return schedules, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedules, errResult := h.fetch(ctx)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(h.deriver.Dashboard(schedules))
}

// displayUnit converts stored kilograms to the requested unit.
func displayUnit(req mcp.CallToolRequest, schedules []models.Schedule) ([]models.Schedule, error) {
	unit, err := schedule.ParseUnit(req.GetString("unit", ""))
	if err != nil {
		return nil, err
	}
	if unit == schedule.Kilograms {
		return schedules, nil
	}
	out := make([]models.Schedule, len(schedules))
	for i, s := range schedules {
		s = schedule.Clone(s)
		for _, w := range s.Workouts {
			for _, ex := range w.Exercises {
				for k := range ex.Sets {
					ex.Sets[k].Weight = schedule.FromKilograms(ex.Sets[k].Weight, unit)
				}
			}
		}
		out[i] = s
	}
	return out, nil
}

func (h *handlers) listSchedules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedules, errResult := h.fetch(ctx)
	if errResult != nil {
		return errResult, nil
	}
	schedules, err := displayUnit(req, schedules)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(schedules)
}

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	s, err := h.ds.GetSchedule(ctx, id)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	converted, err := displayUnit(req, []models.Schedule{s})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(converted[0])
}

func (h *handlers) getMuscleGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedules, errResult := h.fetch(ctx)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(h.deriver.MuscleGroups(schedules))
}

func (h *handlers) getRecentWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedules, errResult := h.fetch(ctx)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(h.deriver.RecentWorkoutsN(schedules, req.GetInt("limit", 0)))
}

func (h *handlers) getWeeklyVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedules, errResult := h.fetch(ctx)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(h.deriver.WeeklyVolume(schedules))
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if category := strings.TrimSpace(req.GetString("category", "")); category != "" {
		filtered := []models.ExerciseDef{}
		for _, e := range exercises {
			if strings.EqualFold(e.Category, category) {
				filtered = append(filtered, e)
			}
		}
		exercises = filtered
	}
	return jsonResult(exercises)
}
