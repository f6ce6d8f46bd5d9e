// Package cli provides common initialization for command binaries.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// SetupLogger initializes structured logging from the configured level
// and sets the result as the default logger.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the configured storage backend or exits on failure.
func OpenStore(logger *applog.Logger, cfg *config.Config) storage.Store {
	storeLog := logger.WithComponent(applog.ComponentStorage)
	if cfg.DataBackend == "memory" {
		storeLog.Info("Using in-memory store, nothing will persist")
		return storage.NewMemoryStore()
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		storeLog.Error("Failed to open sqlite store", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	return store
}
