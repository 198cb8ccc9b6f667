package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/app"
	"github.com/abhisek/studymate/internal/config"
	"github.com/abhisek/studymate/internal/logger"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studymate",
		Short: "Spaced-repetition study companion",
		Long: `StudyMate schedules multiple-choice items with SM-2, picks what to study
next with a difficulty bandit, and tracks streaks, challenges and badges.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Path to YAML config file (overrides STUDYMATE_CONFIG)")
	root.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYMATE_DB)")

	root.AddCommand(
		newNextCmd(),
		newAnswerCmd(),
		newDrillCmd(),
		newDueCmd(),
		newStatsCmd(),
		newBadgesCmd(),
		newExportCmd(),
		newImportCmd(),
		newResetCmd(),
		newVersionCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// openApp loads configuration, applies flag overrides and wires the
// services. The --db flag takes precedence over config and STUDYMATE_DB.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	if a.Degraded() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: storage unavailable, progress will not be saved")
	}
	return a, nil
}

// closeApp drains background work and closes the store.
func closeApp(a *app.App) {
	if err := a.Close(context.Background()); err != nil {
		a.Log.Warn("shutdown incomplete", "error", err)
	}
	a.Log.Sync()
}
