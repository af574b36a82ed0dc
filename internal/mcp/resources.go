package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var resSchedules = mcp.NewResource(
	"liftboard://schedules",
	"Workout Schedules",
	mcp.WithResourceDescription("All workout schedules with workouts, exercises and sets (weights in kg)"),
	mcp.WithMIMEType("application/json"),
)

var resMuscleCatalog = mcp.NewResource(
	"liftboard://muscle_catalog",
	"Muscle Group Catalog",
	mcp.WithResourceDescription("Muscle groups and the exercise-name keywords that classify exercises into them"),
	mcp.WithMIMEType("application/json"),
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) schedulesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	schedules, err := h.ds.FetchSchedules(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, schedules)
}

func (h *handlers) muscleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.deriver.Catalog())
}
