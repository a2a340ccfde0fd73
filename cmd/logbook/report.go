package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucas-viotti/personal-os/internal/config"
	"github.com/lucas-viotti/personal-os/internal/jira"
	"github.com/lucas-viotti/personal-os/internal/report"
	"github.com/lucas-viotti/personal-os/internal/slack"
	"github.com/lucas-viotti/personal-os/internal/task"
)

var reportTitles = map[report.Kind]string{
	report.KindBriefing: "Daily Briefing",
	report.KindClosing:  "Daily Closing",
	report.KindWeekly:   "Weekly Review",
}

func reportCmd(kind, short string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store := task.NewStore(cfg.TasksDir, logger)
			records, err := store.List()
			if err != nil {
				return fmt.Errorf("failed to read tasks: %w", err)
			}

			now := time.Now()
			activity := fetchActivity(cfg, report.Kind(kind), now, logger)

			gen := report.NewGenerator(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
			body, err := gen.Generate(cmd.Context(), report.Kind(kind), records, activity, now)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Println(body)
				return nil
			}

			poster := slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannelID, logger)
			return poster.Post(reportTitles[report.Kind(kind)], body)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the report instead of posting it")
	return cmd
}

// fetchActivity pulls recent Jira activity for the report window: one
// day for the dailies, seven for the weekly. Reports degrade to local
// state when Jira is unconfigured or unreachable.
func fetchActivity(cfg config.Config, kind report.Kind, now time.Time, logger *zap.Logger) []jira.ActivityItem {
	if !cfg.JiraConfigured() || cfg.JiraProject == "" {
		return nil
	}

	client, err := jira.NewClient(cfg.JiraBaseURL(), cfg.AtlassianEmail, cfg.AtlassianToken, logger)
	if err != nil {
		logger.Warn("failed to create jira client", zap.Error(err))
		return nil
	}

	days := 1
	if kind == report.KindWeekly {
		days = 7
	}
	activity, err := client.RecentActivity(cfg.JiraProject, now.AddDate(0, 0, -days))
	if err != nil {
		logger.Warn("failed to fetch jira activity", zap.Error(err))
		return nil
	}
	return activity
}
