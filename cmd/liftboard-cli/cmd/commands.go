package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/liftboard/internal/models"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show stats, muscle-group balance, recent workouts and weekly volume",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schedules, err := client.FetchSchedules(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to fetch schedules: %w", err)
		}
		deriver, err := newDeriver()
		if err != nil {
			return err
		}
		renderDashboard(cmd.OutOrStdout(), deriver.Dashboard(schedules), unit)
		return nil
	},
}

var schedulesCmd = &cobra.Command{
	Use:   "schedules [id]",
	Short: "List schedules, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		var schedules []models.Schedule
		if len(args) == 1 {
			s, err := client.GetSchedule(ctx, args[0])
			if err != nil {
				return err
			}
			schedules = []models.Schedule{s}
		} else {
			all, err := client.FetchSchedules(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch schedules: %w", err)
			}
			schedules = all
		}
		if len(schedules) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), faint("no schedules"))
		}
		for _, s := range schedules {
			renderSchedule(cmd.OutOrStdout(), s, unit)
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

var newScheduleCmd = &cobra.Command{
	Use:   "new-schedule [name]",
	Short: "Create a schedule with one Monday Bench Press workout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newEditor().NewSkeleton()
		if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
			s.Name = strings.TrimSpace(args[0])
		}
		created, err := client.CreateSchedule(commandContext(cmd), s)
		if err != nil {
			return fmt.Errorf("failed to create schedule: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), greenBold("created"))
		renderSchedule(cmd.OutOrStdout(), created, unit)
		return nil
	},
}

var renameScheduleCmd = &cobra.Command{
	Use:   "rename-schedule <id> <name>",
	Short: "Rename a schedule (blank names are ignored)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[1])
		if name == "" {
			fmt.Fprintln(cmd.OutOrStdout(), faint("name is blank; schedule unchanged"))
			return nil
		}
		s, err := client.UpdateSchedule(commandContext(cmd), args[0], models.SchedulePatch{Name: &name})
		if err != nil {
			return fmt.Errorf("failed to rename schedule: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "renamed to %s\n", cyanBold(s.Name))
		return nil
	},
}

var deleteScheduleCmd = &cobra.Command{
	Use:   "delete-schedule <id>",
	Short: "Delete a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DeleteSchedule(commandContext(cmd), args[0]); err != nil {
			return fmt.Errorf("failed to delete schedule: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
		return nil
	},
}

var exerciseCategory string

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "List the exercise library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := client.ListExercises(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if exerciseCategory != "" {
			var filtered []models.ExerciseDef
			for _, e := range exercises {
				if strings.EqualFold(e.Category, exerciseCategory) {
					filtered = append(filtered, e)
				}
			}
			exercises = filtered
		}
		renderExercises(cmd.OutOrStdout(), exercises)
		return nil
	},
}

var (
	loginPassword string
	loginSave     bool
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and print (or save) a bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("LIFTBOARD_PASSWORD")
		}
		if password == "" {
			return fmt.Errorf("no password: pass --password or set LIFTBOARD_PASSWORD")
		}
		session, err := client.Login(commandContext(cmd), args[0], password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", cyanBold(session.User.Email))
		if !loginSave {
			fmt.Fprintln(cmd.OutOrStdout(), session.Token)
			return nil
		}
		if err := saveToken(".env", session.Token); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token saved to .env")
		return nil
	},
}

func init() {
	exercisesCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "only show this category")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (default $LIFTBOARD_PASSWORD)")
	loginCmd.Flags().BoolVar(&loginSave, "save", false, "write the token to .env as LIFTBOARD_TOKEN")

	rootCmd.AddCommand(dashboardCmd, schedulesCmd, newScheduleCmd, renameScheduleCmd,
		deleteScheduleCmd, exercisesCmd, loginCmd)
}
