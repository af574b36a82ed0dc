package analytics

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// descriptionKeywords is how many keywords make up a group's description.
const descriptionKeywords = 3

// MuscleGroup maps a group name to the exercise-name fragments that belong to it.
type MuscleGroup struct {
	Name     string   `toml:"name" json:"name"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

// Description is the group's first three keywords joined for display.
func (g MuscleGroup) Description() string {
	kw := g.Keywords
	if len(kw) > descriptionKeywords {
		kw = kw[:descriptionKeywords]
	}
	return strings.Join(kw, ", ")
}

// Catalog is an ordered list of muscle groups. Order is significant: an
// exercise is assigned to the first group with a matching keyword, so a name
// like "Romanian Deadlift" lands in whichever of Back or Legs comes first.
type Catalog []MuscleGroup

// DefaultCatalog is the dashboard's built-in six-group catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Chest", Keywords: []string{"Bench Press", "Push-ups", "Dips", "Chest Fly"}},
		{Name: "Back", Keywords: []string{"Pull-ups", "Row", "Deadlift", "Lat Pulldown"}},
		{Name: "Shoulders", Keywords: []string{"Military Press", "Lateral Raise", "Shoulder Press", "Overhead Press"}},
		{Name: "Arms", Keywords: []string{"Curl", "Tricep Extension", "Skull Crusher", "Hammer Curl"}},
		{Name: "Legs", Keywords: []string{"Squat", "Lunge", "Leg Press", "Calf Raise"}},
		{Name: "Core", Keywords: []string{"Plank", "Crunch", "Leg Raise", "Russian Twist"}},
	}
}

// Classify returns the index of the first group whose keyword is contained in
// name, case-insensitively, or -1.
func (c Catalog) Classify(name string) int {
	lower := strings.ToLower(name)
	for i, g := range c {
		for _, kw := range g.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				return i
			}
		}
	}
	return -1
}

type catalogFile struct {
	Groups []MuscleGroup `toml:"group"`
}

// LoadCatalog reads a catalog from a TOML file of [[group]] tables.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Groups) == 0 {
		return nil, fmt.Errorf("catalog %s has no groups", path)
	}
	for i, g := range f.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("catalog group %d has no name", i)
		}
	}
	return Catalog(f.Groups), nil
}
