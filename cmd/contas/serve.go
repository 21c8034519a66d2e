package main

import (
	"github.com/spf13/cobra"

	"contas/internal/cli"
	apphttp "contas/internal/http"
	"contas/internal/log"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Build the configured backend and serve the JSON API until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := cli.BuildApp(ctx, logger, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Error("Failed to release backend", log.FieldError, err)
				}
			}()

			srv := apphttp.NewServer(cfg.Addr(), app.HTTPServices(), apphttp.Options{
				Debug:      cfg.Debug,
				CORSOrigin: cfg.CORSOrigin,
				RateLimit:  cfg.RateLimit,
				Logger:     logger,
			})

			logger.Info("Starting contas server",
				log.FieldOperation, log.OpStartup,
				"addr", cfg.Addr(),
				"backend", cfg.DataBackend,
				"amqp", cfg.AMQPEnabled())

			return cli.RunServer(ctx, logger, srv, cfg.ShutdownTimeout)
		},
	}
}
