package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/config"
	"github.com/lucas-viotti/personal-os/internal/jira"
	"github.com/lucas-viotti/personal-os/internal/sync"
	"github.com/lucas-viotti/personal-os/internal/task"
)

func syncCmd() *cobra.Command {
	var scanOnly bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Scan tasks against Jira and review suggested updates",
		Long: `sync extracts Jira keys from every open task record, compares local
state against each linked issue, and walks the resulting suggestions
one by one: approve, edit, skip, or quit. Quitting saves the remainder
for "logbook sync resume".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.JiraConfigured() {
				fmt.Println("Jira is not configured. Set ATLASSIAN_DOMAIN, ATLASSIAN_EMAIL and ATLASSIAN_API_TOKEN.")
				return nil
			}

			tracker, err := jira.NewClient(cfg.JiraBaseURL(), cfg.AtlassianEmail, cfg.AtlassianToken, logger)
			if err != nil {
				return err
			}

			store := task.NewStore(cfg.TasksDir, logger)
			scanner := sync.NewScanner(store, tracker, logger)
			batchFile := sync.NewBatchFile(cfg.StateDir())
			today := time.Now()

			batch, err := scanner.Scan(cmd.Context(), today)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			if err := batchFile.Save(batch); err != nil {
				return err
			}

			if scanOnly {
				fmt.Printf("Scan complete: %d suggestion group(s) saved to %s\n",
					len(batch.Suggestions), batchFile.Path())
				return nil
			}

			return review(cfg, tracker, store, batchFile, batch, today, logger)
		},
	}
	cmd.Flags().BoolVar(&scanOnly, "scan-only", false, "persist the batch without starting the review loop")

	cmd.AddCommand(syncResumeCmd())
	return cmd
}

func syncResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Review a previously saved sync batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.JiraConfigured() {
				fmt.Println("Jira is not configured. Set ATLASSIAN_DOMAIN, ATLASSIAN_EMAIL and ATLASSIAN_API_TOKEN.")
				return nil
			}

			batchFile := sync.NewBatchFile(cfg.StateDir())
			batch, err := batchFile.Load()
			if err != nil {
				return err
			}
			if batch == nil {
				fmt.Println("No pending sync batch. Run `logbook sync` first.")
				return nil
			}

			tracker, err := jira.NewClient(cfg.JiraBaseURL(), cfg.AtlassianEmail, cfg.AtlassianToken, logger)
			if err != nil {
				return err
			}
			store := task.NewStore(cfg.TasksDir, logger)

			return review(cfg, tracker, store, batchFile, batch, time.Now(), logger)
		},
	}
}

func review(
	cfg config.Config,
	tracker sync.TrackerClient,
	store *task.Store,
	batchFile *sync.BatchFile,
	batch *sync.Batch,
	today time.Time,
	logger *zap.Logger,
) error {
	executor := sync.NewExecutor(tracker, logger)
	sink := sync.NewLedgerSink(cfg.StateDir(), logger)
	provider := sync.NewConsoleProvider(os.Stdin, os.Stdout)

	reviewer := sync.NewReviewer(executor, store, sink, provider, sync.ShellEditor{}, batchFile, logger)
	return reviewer.Run(batch, today)
}
