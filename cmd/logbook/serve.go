package main

import (
	"github.com/spf13/cobra"

	"github.com/lucas-viotti/personal-os/internal/sync"
	"github.com/lucas-viotti/personal-os/internal/task"
	"github.com/lucas-viotti/personal-os/internal/web"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only dashboard over tasks and the pending sync batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if port == "" {
				port = cfg.WebPort
			}

			store := task.NewStore(cfg.TasksDir, logger)
			batchFile := sync.NewBatchFile(cfg.StateDir())
			server := web.NewServer(store, batchFile, logger)
			return server.ListenAndServe(":" + port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides WEB_PORT)")
	return cmd
}
