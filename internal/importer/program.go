package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
)

// programFile is the TOML layout of a training program. Weights are in Unit.
type programFile struct {
	Name     string       `toml:"name"`
	Unit     string       `toml:"unit"`
	Workouts []programDay `toml:"workout"`
}

type programDay struct {
	Day       string            `toml:"day"`
	Exercises []programExercise `toml:"exercise"`
}

// programExercise lists its sets explicitly, or gives a count with shared
// reps and weight.
type programExercise struct {
	Name   string       `toml:"name"`
	Sets   int          `toml:"sets"`
	Reps   int          `toml:"reps"`
	Weight float64      `toml:"weight"`
	Set    []programSet `toml:"set"`
}

type programSet struct {
	Reps   int     `toml:"reps"`
	Weight float64 `toml:"weight"`
}

// ParseProgram reads a TOML program into a schedule with weights in kilograms.
func ParseProgram(data []byte, defaultReps int) (models.Schedule, error) {
	var p programFile
	if _, err := toml.Decode(string(data), &p); err != nil {
		return models.Schedule{}, fmt.Errorf("decode program: %w", err)
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Schedule{}, fmt.Errorf("program has no name")
	}
	unit, err := schedule.ParseUnit(p.Unit)
	if err != nil {
		return models.Schedule{}, err
	}
	if defaultReps <= 0 {
		defaultReps = schedule.DefaultReps
	}

	s := models.Schedule{Name: name, Workouts: make([]models.Workout, 0, len(p.Workouts))}
	for _, d := range p.Workouts {
		w := models.Workout{Day: strings.TrimSpace(d.Day), Exercises: make([]models.Exercise, 0, len(d.Exercises))}
		for _, e := range d.Exercises {
			w.Exercises = append(w.Exercises, models.Exercise{
				ExerciseName: strings.TrimSpace(e.Name),
				Sets:         programSets(e, unit, defaultReps),
			})
		}
		s.Workouts = append(s.Workouts, w)
	}
	return s, nil
}

func programSets(e programExercise, unit schedule.Unit, defaultReps int) []models.Set {
	if len(e.Set) > 0 {
		sets := make([]models.Set, len(e.Set))
		for i, ps := range e.Set {
			sets[i] = models.Set{
				SetNumber: i + 1,
				Reps:      max(0, ps.Reps),
				Weight:    schedule.ToKilograms(max(0, ps.Weight), unit),
			}
		}
		return sets
	}

	n := max(1, e.Sets)
	reps := e.Reps
	if reps <= 0 {
		reps = defaultReps
	}
	weight := schedule.ToKilograms(max(0, e.Weight), unit)
	sets := make([]models.Set, n)
	for i := range n {
		sets[i] = models.Set{SetNumber: i + 1, Reps: reps, Weight: weight}
	}
	return sets
}

// ParseScheduleJSON reads one schedule object or an array of them, as the
// schedule API returns them. Weights are already in kilograms. Sets are
// renumbered 1..N per exercise and negative reps or weights become 0.
func ParseScheduleJSON(data []byte) ([]models.Schedule, error) {
	var out []models.Schedule
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode schedules: %w", err)
		}
	} else {
		var s models.Schedule
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
		out = []models.Schedule{s}
	}
	for i := range out {
		normalizeSets(&out[i])
	}
	return out, nil
}

func normalizeSets(s *models.Schedule) {
	for _, w := range s.Workouts {
		for _, ex := range w.Exercises {
			for i := range ex.Sets {
				ex.Sets[i].SetNumber = i + 1
				ex.Sets[i].Reps = max(0, ex.Sets[i].Reps)
				ex.Sets[i].Weight = max(0, ex.Sets[i].Weight)
			}
		}
	}
}
