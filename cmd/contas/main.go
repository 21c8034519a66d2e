package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"contas/internal/cli"
	"contas/internal/config"
	"contas/internal/log"
)

var (
	envFile string
	cfg     *config.Config
	logger  *log.Logger
	rootCmd = &cobra.Command{
		Use:   "contas",
		Short: "Personal spending and bills tracker",
		Long: `contas records spending (gastos) and bills (despesas), reports totals
per category and the balance between them, and serves everything as a JSON API.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default: .env)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(watchCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if envFile != "" {
		cli.LoadEnvFile(envFile)
	} else {
		cli.LoadEnvFile()
	}

	var err error
	cfg, err = cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}

	logger, err = cli.SetupLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}
