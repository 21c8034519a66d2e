package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contas/internal/log"
	"contas/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Apply the embedded schema migrations to the SQLite database at SQLITE_DB_PATH.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
				return fmt.Errorf("failed to migrate %s: %w", cfg.SQLiteDBPath, err)
			}

			version, dirty, err := storage.MigrationVersion(cfg.SQLiteDBPath)
			if err != nil {
				return err
			}

			logger.WithComponent(log.ComponentStorage).Info("Migrations applied",
				log.FieldOperation, log.OpMigrate,
				"db_path", cfg.SQLiteDBPath,
				"version", version,
				"dirty", dirty)
			return nil
		},
	}
}
