// Package cli holds the bootstrap shared by cmd/spendwise and cmd/spendwise-migrate.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"spendwise/internal/config"
	applog "spendwise/internal/log"
	"spendwise/internal/storage"

	"github.com/joho/godotenv"
)

// SetupLogger installs a text logger at level as the slog default.
// Unknown levels fall back to info.
func SetupLogger(level string) *applog.Logger {
	lvl, err := applog.ParseLevel(level)
	logger := applog.New(applog.Config{Level: lvl, Component: applog.ComponentApp, Output: os.Stdout})
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
	}
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and exits the process when it is invalid.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the repository, applying pending migrations, or exits.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	logger = logger.WithComponent(applog.ComponentStorage)
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	logger.Info("SQLite repository ready", "path", dbPath)
	return repo
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
