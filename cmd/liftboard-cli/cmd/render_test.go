package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/claude/liftboard/internal/analytics"
	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
)

func init() {
	color.NoColor = true
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, full float64
		want        string
	}{
		{0, 100, "·····"},
		{50, 100, "███··"},
		{100, 100, "█████"},
		{150, 100, "█████"},
		{10, 0, "·····"},
	}
	for _, tt := range tests {
		if got := bar(tt.value, tt.full, 5); got != tt.want {
			t.Errorf("bar(%v, %v) = %q, want %q", tt.value, tt.full, got, tt.want)
		}
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab  " {
		t.Errorf("centerText = %q", got)
	}
	if got := centerText("toolong", 3); got != "toolong" {
		t.Errorf("centerText = %q", got)
	}
}

// TestRenderSchedulePounds verifies weights are shown in the display unit.
func TestRenderSchedulePounds(t *testing.T) {
	s := models.Schedule{
		ID:   "s1",
		Name: "Push",
		Workouts: []models.Workout{{
			Day: "Monday",
			Exercises: []models.Exercise{{
				ExerciseName: "Bench Press",
				Sets:         []models.Set{{SetNumber: 1, Reps: 5, Weight: 100}},
			}},
		}},
	}
	var buf bytes.Buffer
	renderSchedule(&buf, s, schedule.Pounds)

	out := buf.String()
	for _, want := range []string{"Push", "(s1)", "Monday", "Bench Press", "set 1: 5 × 220.5 lb"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestRenderDashboardEmpty verifies an empty dashboard still renders every section.
func TestRenderDashboardEmpty(t *testing.T) {
	d := analytics.New(analytics.Options{}).Dashboard(nil)
	var buf bytes.Buffer
	renderDashboard(&buf, d, schedule.Kilograms)

	out := buf.String()
	for _, want := range []string{"DASHBOARD", "Muscle groups:", "Chest", "none yet", "Weekly volume:", "Sun"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestParseIndexes verifies index arguments must be integers.
func TestParseIndexes(t *testing.T) {
	got, err := parseIndexes([]string{"workout", "exercise"}, []string{"0", "2"})
	if err != nil || got[0] != 0 || got[1] != 2 {
		t.Errorf("parseIndexes = %v, %v", got, err)
	}
	if _, err := parseIndexes([]string{"workout"}, []string{"x"}); err == nil {
		t.Error("expected error for non-integer index")
	}
}

// TestSaveToken verifies the token is merged into an existing .env file.
func TestSaveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LIFTBOARD_URL=http://localhost:5000/api\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := saveToken(path, "tok-123"); err != nil {
		t.Fatalf("saveToken: %v", err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if env["LIFTBOARD_TOKEN"] != "tok-123" || env["LIFTBOARD_URL"] != "http://localhost:5000/api" {
		t.Errorf("env = %v", env)
	}

	fresh := filepath.Join(t.TempDir(), ".env")
	if err := saveToken(fresh, "tok-456"); err != nil {
		t.Fatalf("saveToken on missing file: %v", err)
	}
}
