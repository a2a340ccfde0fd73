package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/config"
	"github.com/lucas-viotti/personal-os/internal/logging"
)

var (
	envFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:   "logbook",
		Short: "logbook keeps local task records and Jira in step",
		Long: `logbook maintains markdown task records, reconciles them against
Jira with a human-reviewed sync loop, and generates daily and weekly
reports for Slack.`,
	}
)

// Execute runs the root command.
func Execute() error {
	if err := registerFlags(); err != nil {
		return err
	}

	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(reportCmd("briefing", "Generate and post the morning briefing"))
	rootCmd.AddCommand(reportCmd("closing", "Generate and post the end-of-day closing"))
	rootCmd.AddCommand(reportCmd("weekly", "Generate and post the weekly review"))
	rootCmd.AddCommand(enrichCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd.Execute()
}

// registerFlags declares the persistent flags and binds the tasks
// directory into viper, so --tasks-dir beats TASKS_DIR which beats the
// baked-in default.
func registerFlags() error {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file with credentials")
	rootCmd.PersistentFlags().String("tasks-dir", "", "task directory (overrides TASKS_DIR)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := viper.BindPFlag("tasks_dir", rootCmd.PersistentFlags().Lookup("tasks-dir")); err != nil {
		return fmt.Errorf("bind tasks-dir flag: %w", err)
	}
	if err := viper.BindEnv("tasks_dir", "TASKS_DIR"); err != nil {
		return fmt.Errorf("bind TASKS_DIR: %w", err)
	}
	return nil
}

// setup loads configuration and builds the logger shared by every
// subcommand.
func setup() (config.Config, *zap.Logger, error) {
	cfg := config.Load(envFile)
	if dir := viper.GetString("tasks_dir"); dir != "" {
		cfg.TasksDir = dir
	}

	logger, err := logging.Init(debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}
