package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftboard/internal/drafts"
	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
)

// editRequest carries the optional inputs of editor operations.
type editRequest struct {
	Unit  string          `json:"unit"`
	Name  string          `json:"name"`
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// value returns the raw input as a form field would hold it: JSON strings
// are unquoted, numbers keep their literal text.
func (e editRequest) value() string {
	var str string
	if json.Unmarshal(e.Value, &str) == nil {
		return str
	}
	return strings.TrimSpace(string(e.Value))
}

func (s *Server) refreshDraftGauge(ctx context.Context) {
	n, err := s.drafts.Count(ctx)
	if err != nil {
		s.log.Warn("counting drafts", "error", err)
		return
	}
	SetOpenDrafts(n)
}

func (s *Server) handleOpenEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	unit := s.editor.Unit()
	if req.Unit != "" {
		u, err := schedule.ParseUnit(req.Unit)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		unit = u
	}

	sc, err := s.store.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.drafts.Create(r.Context(), sc, unit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.refreshDraftGauge(r.Context())
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetEdit(w http.ResponseWriter, r *http.Request) {
	d, err := s.drafts.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDiscardEdit(w http.ResponseWriter, r *http.Request) {
	if err := s.drafts.Delete(r.Context(), chi.URLParam(r, "sid")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.refreshDraftGauge(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleSaveEdit commits the draft's workouts to the store and closes the session.
func (s *Server) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	d, err := s.drafts.Get(r.Context(), sid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	saved, err := schedule.Save(r.Context(), s.store, d.Schedule)
	recordEdit("save", err)
	if err != nil {
		// the draft stays open so the caller can retry
		s.writeError(w, r, err)
		return
	}

	if err := s.drafts.Delete(r.Context(), sid); err != nil {
		s.log.Warn("closing saved draft", "draft", sid, "error", err)
	}
	s.refreshDraftGauge(r.Context())
	writeJSON(w, http.StatusOK, saved)
}

// applyEdit runs one editor operation against a draft and stores the result.
func (s *Server) applyEdit(w http.ResponseWriter, r *http.Request, op string,
	fn func(ed schedule.Editor, sc models.Schedule, req editRequest) (models.Schedule, error)) {
	var req editRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var reqUnit schedule.Unit
	if req.Unit != "" {
		u, err := schedule.ParseUnit(req.Unit)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		reqUnit = u
	}

	updated, err := s.drafts.Modify(r.Context(), chi.URLParam(r, "sid"), func(d drafts.Draft) (models.Schedule, error) {
		ed := s.editor.WithUnit(d.Unit).WithUnit(reqUnit)
		next, err := fn(ed, d.Schedule, req)
		recordEdit(op, err)
		return next, err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// indexes reads the workout, exercise and set path parameters that are present.
func indexes(r *http.Request, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := intParam(r, name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	s.applyEdit(w, r, "add_exercise", func(ed schedule.Editor, sc models.Schedule, _ editRequest) (models.Schedule, error) {
		idx, err := indexes(r, "w")
		if err != nil {
			return models.Schedule{}, err
		}
		return ed.AddExercise(sc, idx[0])
	})
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	s.applyEdit(w, r, "remove_exercise", func(ed schedule.Editor, sc models.Schedule, _ editRequest) (models.Schedule, error) {
		idx, err := indexes(r, "w", "x")
		if err != nil {
			return models.Schedule{}, err
		}
		return ed.RemoveExercise(sc, idx[0], idx[1])
	})
}

func (s *Server) handleRenameExercise(w http.ResponseWriter, r *http.Request) {
	s.applyEdit(w, r, "rename_exercise", func(ed schedule.Editor, sc models.Schedule, req editRequest) (models.Schedule, error) {
		idx, err := indexes(r, "w", "x")
		if err != nil {
			return models.Schedule{}, err
		}
		return ed.RenameExercise(sc, idx[0], idx[1], req.Name)
	})
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	s.applyEdit(w, r, "add_set", func(ed schedule.Editor, sc models.Schedule, _ editRequest) (models.Schedule, error) {
		idx, err := indexes(r, "w", "x")
		if err != nil {
			return models.Schedule{}, err
		}
		return ed.AddSet(sc, idx[0], idx[1])
	})
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	s.applyEdit(w, r, "remove_set", func(ed schedule.Editor, sc models.Schedule, _ editRequest) (models.Schedule, error) {
		idx, err := indexes(r, "w", "x", "i")
		if err != nil {
			return models.Schedule{}, err
		}
		return ed.RemoveSet(sc, idx[0], idx[1], idx[2])
	})
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	s.applyEdit(w, r, "update_set", func(ed schedule.Editor, sc models.Schedule, req editRequest) (models.Schedule, error) {
		idx, err := indexes(r, "w", "x", "i")
		if err != nil {
			return models.Schedule{}, err
		}
		return ed.UpdateSetField(sc, idx[0], idx[1], idx[2], schedule.Field(req.Field), req.value())
	})
}
