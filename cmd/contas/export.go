package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contas/internal/cli"
	"contas/internal/core"
	"contas/internal/log"
	"contas/internal/services"
	gsheet "contas/internal/sheets/google"
)

func exportCmd() *cobra.Command {
	var (
		domain   string
		sheet    string
		from     string
		to       string
		category string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Append entries to a Google Sheet",
		Long: `List the entries of one domain matching the filters and append them as rows
[id, data, categoria, descricao, valor, created_at] to GOOGLE_SPREADSHEET_ID.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := cfg.ValidateExport(); err != nil {
				return err
			}

			d, ok := core.ParseDomain(domain)
			if !ok {
				return fmt.Errorf("unknown domain %q (want %s or %s)", domain, core.Spending, core.Bill)
			}
			rng, err := core.ParseRange(from, to)
			if err != nil {
				return err
			}

			exporter, err := gsheet.NewWithCredentials(ctx, gsheet.Credentials{
				SpreadsheetID:      cfg.GoogleSpreadsheetID,
				ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
				ServiceAccountFile: cfg.GoogleServiceAccountFile,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize Google Sheets client: %w", err)
			}

			app, err := cli.BuildApp(ctx, logger, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			n, written, err := services.NewExportService(exporter).
				Export(ctx, app.Backend.Entries(d), sheet, core.Filter{DateRange: rng, Category: category})
			if err != nil {
				return err
			}

			logger.WithComponent(log.ComponentSheets).Info("Export finished",
				log.FieldOperation, log.OpExport,
				log.FieldDomain, d,
				"rows", n,
				"range", written)
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d %s\n", n, d)
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", core.Spending.String(), "domain to export (gastos or despesas)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "target sheet name (default: the domain name)")
	cmd.Flags().StringVar(&from, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "only export this category")

	return cmd
}
