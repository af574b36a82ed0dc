package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
	"github.com/claude/liftboard/internal/store"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, schedule.ErrIndexOutOfRange),
		errors.Is(err, schedule.ErrUnknownField),
		errors.Is(err, schedule.ErrInvalidSetNumber):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads an optional JSON body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return v, nil
}

// --- Dashboard ---

func (s *Server) fetchSchedules(w http.ResponseWriter, r *http.Request) ([]models.Schedule, bool) {
	schedules, err := s.store.FetchSchedules(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return schedules, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	schedules, ok := s.fetchSchedules(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.deriver.Dashboard(schedules))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	schedules, ok := s.fetchSchedules(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.deriver.AggregateStats(schedules))
}

func (s *Server) handleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	schedules, ok := s.fetchSchedules(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.deriver.MuscleGroups(schedules))
}

func (s *Server) handleRecentWorkouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	schedules, ok := s.fetchSchedules(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.deriver.RecentWorkoutsN(schedules, limit))
}

func (s *Server) handleWeeklyVolume(w http.ResponseWriter, r *http.Request) {
	schedules, ok := s.fetchSchedules(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.deriver.WeeklyVolume(schedules))
}

// --- Schedules ---

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, ok := s.fetchSchedules(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

type createScheduleRequest struct {
	Name     string           `json:"name"`
	Workouts []models.Workout `json:"workouts"`
}

// handleCreateSchedule creates the default skeleton unless the body supplies workouts.
func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sc := s.editor.NewSkeleton()
	if req.Workouts != nil {
		sc.Workouts = req.Workouts
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		sc.Name = name
	}

	created, err := s.store.CreateSchedule(r.Context(), sc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleRenameSchedule renames a schedule. A blank name is ignored and the
// schedule is returned unchanged.
func (s *Server) handleRenameSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.handleGetSchedule(w, r)
		return
	}

	sc, err := s.store.UpdateSchedule(r.Context(), id, models.SchedulePatch{Name: &name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSchedule(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Exercise library ---

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.store.ListExercises(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.GetExercise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func decodeExercise(r *http.Request) (models.ExerciseDef, error) {
	var e models.ExerciseDef
	if err := decodeBody(r, &e); err != nil {
		return models.ExerciseDef{}, err
	}
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return models.ExerciseDef{}, fmt.Errorf("%w: name is required", errBadRequest)
	}
	return e, nil
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	e, err := decodeExercise(r)
	if err == nil {
		e, err = s.store.CreateExercise(r.Context(), e)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	e, err := decodeExercise(r)
	if err == nil {
		e, err = s.store.UpdateExercise(r.Context(), chi.URLParam(r, "id"), e)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExercise(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
