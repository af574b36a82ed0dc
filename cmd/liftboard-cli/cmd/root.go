// Package cmd implements the liftboard command line client.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/claude/liftboard/internal/analytics"
	"github.com/claude/liftboard/internal/remote"
	"github.com/claude/liftboard/internal/schedule"
)

var (
	apiURL      string
	apiToken    string
	unitFlag    string
	catalogFile string
	defaultReps int

	client *remote.Client
	unit   schedule.Unit
)

var rootCmd = &cobra.Command{
	Use:           "liftboard-cli",
	Short:         "Workout schedules and training analytics from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is fine; flags and the environment still apply
		_ = godotenv.Load()

		if apiURL == "" {
			apiURL = os.Getenv("LIFTBOARD_URL")
		}
		if apiToken == "" {
			apiToken = os.Getenv("LIFTBOARD_TOKEN")
		}
		if apiURL == "" {
			return fmt.Errorf("no API URL: set LIFTBOARD_URL or pass --url")
		}

		u, err := schedule.ParseUnit(unitFlag)
		if err != nil {
			return err
		}
		unit = u
		client = remote.NewClient(apiURL, apiToken, 15*time.Second)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", "", "schedule API base URL (default $LIFTBOARD_URL)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token (default $LIFTBOARD_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&unitFlag, "unit", "u", "kg", "weight unit for input and display (kg or lb)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "muscle-group catalog TOML")
	rootCmd.PersistentFlags().IntVar(&defaultReps, "default-reps", schedule.DefaultReps, "reps given to new sets")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newDeriver() (*analytics.Deriver, error) {
	opts := analytics.Options{}
	if catalogFile != "" {
		catalog, err := analytics.LoadCatalog(catalogFile)
		if err != nil {
			return nil, err
		}
		opts.Catalog = catalog
	}
	return analytics.New(opts), nil
}

func newEditor() schedule.Editor {
	return schedule.NewEditor(defaultReps, unit)
}
