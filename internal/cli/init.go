// Package cli provides common CLI initialization utilities shared by the
// contas subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"contas/internal/backend"
	"contas/internal/config"
	apphttp "contas/internal/http"
	"contas/internal/log"
	"contas/internal/services"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger, nil
}

// App bundles the services built on top of one backend.
type App struct {
	Backend  *backend.BackendResult
	Spending *services.EntryService
	Bills    *services.EntryService
	Reports  *services.ReportService
}

// BuildApp creates the configured backend and the services on top of it.
// Callers own App.Close.
func BuildApp(ctx context.Context, logger *log.Logger, cfg *config.Config) (*App, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}

	return &App{
		Backend:  result,
		Spending: services.NewEntryService(result.Spending, result.Publisher),
		Bills:    services.NewEntryService(result.Bills, result.Publisher),
		Reports:  services.NewReportService(result.Spending, result.Bills),
	}, nil
}

// HTTPServices adapts the app to what the HTTP server delegates to.
func (a *App) HTTPServices() apphttp.Services {
	return apphttp.Services{
		Spending: a.Spending,
		Bills:    a.Bills,
		Reports:  a.Reports,
		Pinger:   a.Backend.Pinger,
	}
}

// Close releases the backend resources.
func (a *App) Close() error {
	return a.Backend.Close()
}

// Server is the subset of *http.Server that RunServer drives.
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// RunServer serves until ctx is cancelled, then shuts down gracefully
// within timeout.
func RunServer(ctx context.Context, logger *log.Logger, srv Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Shutdown timeout reached", "timeout", timeout)
		}
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Surface a listener error that raced with the signal.
	if err, ok := <-errCh; ok {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
