package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/claude/liftboard/internal/analytics"
	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
)

var (
	cyanBold   = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellowBold = color.New(color.FgYellow, color.Bold).SprintFunc()
	greenBold  = color.New(color.FgGreen, color.Bold).SprintFunc()
	faint      = color.New(color.Faint).SprintFunc()
	red        = color.New(color.FgRed).SprintFunc()
)

func printBoxedHeader(w io.Writer, title string) {
	width := 40
	border := strings.Repeat("═", width)
	fmt.Fprintln(w, cyanBold("╔"+border+"╗"))
	fmt.Fprintln(w, cyanBold("║"+centerText(title, width)+"║"))
	fmt.Fprintln(w, cyanBold("╚"+border+"╝"))
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-len(s)-padding)
}

func printMetric(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s: %v\n", yellowBold(label), value)
}

// bar draws value out of full as a fixed-width gauge.
func bar(value, full float64, width int) string {
	if full <= 0 || value <= 0 {
		return strings.Repeat("·", width)
	}
	n := min(width, int(value/full*float64(width)+0.5))
	return strings.Repeat("█", n) + strings.Repeat("·", width-n)
}

func renderDashboard(w io.Writer, d analytics.Dashboard, u schedule.Unit) {
	printBoxedHeader(w, "DASHBOARD")
	printMetric(w, "Schedules", d.Schedules)
	printMetric(w, "Monthly workouts", d.Stats.MonthlyWorkouts)
	printMetric(w, "Weekly target", d.Stats.WeeklyTarget)
	printMetric(w, "Current streak", d.Stats.CurrentStreak)
	printMetric(w, "Volume progress", d.Stats.VolumeProgress)
	fmt.Fprintln(w)

	fmt.Fprintln(w, greenBold("Muscle groups:"))
	for _, g := range d.MuscleGroups {
		fmt.Fprintf(w, "  %-10s %s %3d  %s\n", g.Name, bar(float64(g.Value), float64(g.FullMark), 20), g.Value, faint(g.Description))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, greenBold("Recent workouts:"))
	if len(d.RecentWorkouts) == 0 {
		fmt.Fprintln(w, faint("  none yet"))
	}
	for _, r := range d.RecentWorkouts {
		pr := ""
		if r.PersonalRecords > 0 {
			pr = yellowBold(fmt.Sprintf(" ★ %d PR", r.PersonalRecords))
		}
		fmt.Fprintf(w, "  %s  %-10s %-20s %s, %s, %s%s\n",
			r.Date, r.Type, r.ScheduleName, r.Duration, r.Intensity,
			schedule.FormatWeight(r.TotalVolume, u), pr)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, greenBold("Weekly volume:"))
	peak := 0.0
	for _, v := range d.WeeklyVolume {
		peak = max(peak, v.Value)
	}
	for _, v := range d.WeeklyVolume {
		fmt.Fprintf(w, "  %s %s %s\n", v.Name, bar(v.Value, peak, 20),
			schedule.FormatWeight(v.Value, u))
	}
}

func renderSchedule(w io.Writer, s models.Schedule, u schedule.Unit) {
	fmt.Fprintf(w, "%s %s\n", cyanBold(s.Name), faint("("+s.ID+")"))
	if len(s.Workouts) == 0 {
		fmt.Fprintln(w, faint("  no workouts"))
	}
	for wi, wo := range s.Workouts {
		fmt.Fprintf(w, "  [%d] %s\n", wi, yellowBold(wo.Day))
		for xi, ex := range wo.Exercises {
			name := ex.ExerciseName
			if strings.TrimSpace(name) == "" {
				name = red("(unnamed)")
			}
			fmt.Fprintf(w, "      [%d] %s\n", xi, name)
			for si, set := range ex.Sets {
				fmt.Fprintf(w, "          [%d] set %d: %d × %s\n", si, set.SetNumber, set.Reps,
					schedule.FormatWeight(set.Weight, u))
			}
		}
	}
}

func renderExercises(w io.Writer, exercises []models.ExerciseDef) {
	if len(exercises) == 0 {
		fmt.Fprintln(w, faint("no exercises"))
		return
	}
	for _, e := range exercises {
		fmt.Fprintf(w, "%-24s %-10s %-12s %s %s\n", e.Name, e.Category, e.Equipment, e.Difficulty, faint(e.ID))
	}
}
