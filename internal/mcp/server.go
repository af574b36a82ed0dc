package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftboard/internal/analytics"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, deriver *analytics.Deriver, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Liftboard", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Liftboard workout schedule server. Read workout schedules, the exercise library, and dashboard analytics (muscle-group balance, recent workouts, weekly volume). Weights are in kilograms."),
	)

	h := &handlers{ds: ds, deriver: deriver, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetDashboard, Handler: h.getDashboard},
		server.ServerTool{Tool: toolListSchedules, Handler: h.listSchedules},
		server.ServerTool{Tool: toolGetSchedule, Handler: h.getSchedule},
		server.ServerTool{Tool: toolGetMuscleGroups, Handler: h.getMuscleGroups},
		server.ServerTool{Tool: toolGetRecentWorkouts, Handler: h.getRecentWorkouts},
		server.ServerTool{Tool: toolGetWeeklyVolume, Handler: h.getWeeklyVolume},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	s.AddResources(
		server.ServerResource{Resource: resSchedules, Handler: h.schedulesResource},
		server.ServerResource{Resource: resMuscleCatalog, Handler: h.muscleCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	deriver *analytics.Deriver
	log     *slog.Logger
}
