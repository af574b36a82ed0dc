package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/schedule"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the workouts of a schedule and save the result",
}

// editOp is one editor operation; args are the positional arguments after the schedule id.
type editOp func(ed schedule.Editor, s models.Schedule, idx []int, rest []string) (models.Schedule, error)

// editCommand builds a subcommand taking <schedule-id>, then the named
// indexes, then nExtra free-form arguments.
func editCommand(use, short string, indexes []string, nExtra int, op editOp) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1 + len(indexes) + nExtra),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndexes(indexes, args[1:1+len(indexes)])
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			s, err := client.GetSchedule(ctx, args[0])
			if err != nil {
				return err
			}
			edited, err := op(newEditor(), s, idx, args[1+len(indexes):])
			if err != nil {
				return err
			}
			saved, err := schedule.Save(ctx, client, edited)
			if err != nil {
				return fmt.Errorf("failed to save schedule: %w", err)
			}
			renderSchedule(cmd.OutOrStdout(), saved, unit)
			return nil
		},
	}
}

func parseIndexes(names, args []string) ([]int, error) {
	out := make([]int, len(names))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s index %q is not an integer", names[i], a)
		}
		out[i] = n
	}
	return out, nil
}

func init() {
	editCmd.AddCommand(
		editCommand("add-exercise <schedule-id> <workout>", "Append a new exercise with one set",
			[]string{"workout"}, 0,
			func(ed schedule.Editor, s models.Schedule, idx []int, _ []string) (models.Schedule, error) {
				return ed.AddExercise(s, idx[0])
			}),
		editCommand("remove-exercise <schedule-id> <workout> <exercise>", "Remove an exercise",
			[]string{"workout", "exercise"}, 0,
			func(ed schedule.Editor, s models.Schedule, idx []int, _ []string) (models.Schedule, error) {
				return ed.RemoveExercise(s, idx[0], idx[1])
			}),
		editCommand("rename-exercise <schedule-id> <workout> <exercise> <name>", "Rename an exercise",
			[]string{"workout", "exercise"}, 1,
			func(ed schedule.Editor, s models.Schedule, idx []int, rest []string) (models.Schedule, error) {
				return ed.RenameExercise(s, idx[0], idx[1], rest[0])
			}),
		editCommand("add-set <schedule-id> <workout> <exercise>", "Append a set",
			[]string{"workout", "exercise"}, 0,
			func(ed schedule.Editor, s models.Schedule, idx []int, _ []string) (models.Schedule, error) {
				return ed.AddSet(s, idx[0], idx[1])
			}),
		editCommand("remove-set <schedule-id> <workout> <exercise> <set>", "Remove a set and renumber the rest",
			[]string{"workout", "exercise", "set"}, 0,
			func(ed schedule.Editor, s models.Schedule, idx []int, _ []string) (models.Schedule, error) {
				return ed.RemoveSet(s, idx[0], idx[1], idx[2])
			}),
		editCommand("set <schedule-id> <workout> <exercise> <set> <setNumber|reps|weight> <value>",
			"Change one field of a set (weight is read in --unit)",
			[]string{"workout", "exercise", "set"}, 2,
			func(ed schedule.Editor, s models.Schedule, idx []int, rest []string) (models.Schedule, error) {
				return ed.UpdateSetField(s, idx[0], idx[1], idx[2], schedule.Field(rest[0]), rest[1])
			}),
	)
	rootCmd.AddCommand(editCmd)
}
