package models

import (
	"encoding/json"
	"time"
)

// ExerciseDef is an entry of the exercise library.
type ExerciseDef struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Equipment  string    `json:"equipment"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts the store's identifier as either "id" or "_id".
func (e *ExerciseDef) UnmarshalJSON(data []byte) error {
	type plain ExerciseDef
	var aux struct {
		plain
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = ExerciseDef(aux.plain)
	if e.ID == "" {
		e.ID = aux.LegacyID
	}
	return nil
}

//
// For TOML parsing only
//

type ExerciseDefTOML struct {
	Name       string `toml:"name"`
	Category   string `toml:"category"`
	Equipment  string `toml:"equipment"`
	Difficulty string `toml:"difficulty"`
}

type ExerciseImport struct {
	Exercises []ExerciseDefTOML `toml:"exercise"`
}
