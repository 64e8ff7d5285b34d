package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inboxintel/cmd/api"
	"inboxintel/internal/triage/delivery"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long: `Serve the triage dashboard API: stored-email archive with urgency and
category filters, per-urgency stats, run history, a trigger for new
triage runs and a clear-database operation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			pipeline, err := app.buildPipeline(context.Background())
			if err != nil {
				return err
			}

			if port == "" {
				port = app.cfg.Port
			}

			triageHandler := delivery.NewTriageHandler(pipeline, app.repo, app.logger)
			handler := api.NewHandler(triageHandler)

			app.logger.Info("dashboard server starting", zap.String("port", port))
			return handler.Start(":" + port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default: PORT env or 8080)")
	return cmd
}
