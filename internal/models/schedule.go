package models

import (
	"encoding/json"
	"time"
)

// Schedule is a named collection of workouts owned by the schedule store.
type Schedule struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Workouts  []Workout `json:"workouts"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts the store's identifier as either "id" or "_id".
func (s *Schedule) UnmarshalJSON(data []byte) error {
	type plain Schedule
	var aux struct {
		plain
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Schedule(aux.plain)
	if s.ID == "" {
		s.ID = aux.LegacyID
	}
	return nil
}

// Workout is one day's planned exercises. Day is a free-form label.
type Workout struct {
	Day         string     `json:"day"`
	Exercises   []Exercise `json:"exercises"`
	PerformedAt *time.Time `json:"performedAt,omitempty"`
}

// Exercise is a named movement with an ordered list of sets.
type Exercise struct {
	ExerciseName string `json:"exerciseName"`
	Sets         []Set  `json:"sets"`
}

// Set is one unit of repetitions. Weight is always stored in kilograms.
type Set struct {
	SetNumber int     `json:"setNumber"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

// SchedulePatch is a partial schedule update. Nil fields are left untouched;
// a non-nil empty Workouts clears the schedule.
type SchedulePatch struct {
	Name     *string   `json:"name"`
	Workouts []Workout `json:"workouts"`
}

// MarshalJSON writes only the fields that are set.
func (p SchedulePatch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 2)
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Workouts != nil {
		out["workouts"] = p.Workouts
	}
	return json.Marshal(out)
}
