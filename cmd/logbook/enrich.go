package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucas-viotti/personal-os/internal/report"
	"github.com/lucas-viotti/personal-os/internal/slack"
)

func enrichCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "enrich [briefing|closing|weekly]",
		Short: "Reply to the latest report thread with a Slack context prompt",
		Long: `enrich finds the most recent posted report of the given kind
(default briefing) and replies in its thread, asking for the Slack
conversations the report itself cannot see.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "briefing"
			if len(args) == 1 {
				mode = args[0]
			}
			title, ok := reportTitles[report.Kind(mode)]
			if !ok {
				return fmt.Errorf("unknown report kind %q", mode)
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if dryRun {
				fmt.Println(slack.EnrichmentMessage(mode))
				return nil
			}

			if !cfg.SlackConfigured() {
				fmt.Println("Slack is not configured. Set SLACK_BOT_TOKEN and SLACK_CHANNEL_ID.")
				return nil
			}

			poster := slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannelID, logger)
			threadTS, err := poster.Enrich(mode, []string{title}, time.Now())
			if err != nil {
				return err
			}
			if threadTS == "" {
				fmt.Printf("No recent %s message found to enrich.\n", title)
				return nil
			}
			fmt.Printf("Replied to the %s thread.\n", title)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the enrichment message instead of posting it")
	return cmd
}
