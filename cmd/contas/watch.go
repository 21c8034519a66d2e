package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"contas/internal/amqp"
	"contas/internal/log"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print entry change events",
		Long:  `Consume the change events published by a running server and print one line per event.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !cfg.AMQPEnabled() {
				return errors.New("AMQP_URL is required for watch")
			}

			client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
			if err != nil {
				return fmt.Errorf("failed to initialize AMQP client: %w", err)
			}
			defer client.Close()

			amqpLog := logger.WithComponent(log.ComponentAMQP)
			out := cmd.OutOrStdout()

			err = client.ConsumeEntryEvents(ctx, func(ev *amqp.EntryEvent) error {
				amqpLog.Debug("Entry event received",
					log.FieldDomain, ev.Domain,
					log.FieldEntryID, ev.ID,
					"action", ev.Action)
				_, err := fmt.Fprintf(out, "%s %s %s %d\n",
					ev.Timestamp.Format("2006-01-02T15:04:05Z07:00"), ev.Domain, ev.Action, ev.ID)
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
