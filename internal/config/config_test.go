package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid sqlite backend config",
			config: Config{
				DataBackend:  "sqlite",
				SQLiteDBPath: "./test.db",
				LogLevel:     "info",
			},
			wantErr: false,
		},
		{
			name: "valid memory backend config",
			config: Config{
				DataBackend: "memory",
				LogLevel:    "debug",
			},
			wantErr: false,
		},
		{
			name: "invalid data backend",
			config: Config{
				DataBackend: "sheets",
				LogLevel:    "info",
			},
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [sqlite memory]",
		},
		{
			name: "sqlite backend missing database path",
			config: Config{
				DataBackend: "sqlite",
				LogLevel:    "info",
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "invalid log level",
			config: Config{
				DataBackend:  "sqlite",
				SQLiteDBPath: "./test.db",
				LogLevel:     "verbose",
			},
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCreatesDBDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(dir, "fintrack.db"),
		LogLevel:     "info",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FINTRACK_DB_PATH", "")
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	if cfg.DataBackend != "sqlite" {
		t.Errorf("default backend = %q, want sqlite", cfg.DataBackend)
	}
	if cfg.SQLiteDBPath == "" {
		t.Error("default db path is empty")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level = %q, want info", cfg.LogLevel)
	}
}
