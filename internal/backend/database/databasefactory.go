package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Config selects and parameterizes a settings backend.
type Config struct {
	Type             string
	ConnectionString string
	Table            string
	ScratchDir       string
	Wrangler         WranglerOptions
	// Runner executes wrangler scripts; nil means ShellRunner.
	Runner CommandRunner
}

func NewDatabase(ctx context.Context, config Config) (database SettingsService, err error) {
	table := config.Table
	if table == "" {
		table = DefaultTable
	}

	switch config.Type {
	case "sqlite":
		database, err = NewSQLiteDatabase(config.ConnectionString, table)
	case "redis":
		database, err = NewRedisDatabase(config.ConnectionString, table)
	case "wrangler":
		scratchDir := config.ScratchDir
		if scratchDir == "" {
			scratchDir = os.TempDir()
		}
		runner := config.Runner
		if runner == nil {
			runner = &ShellRunner{}
		}
		database, err = NewWranglerDatabase(config.Wrangler, table, scratchDir, runner)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	// Ensure schema exists (idempotent), important for in-memory SQLite
	slog.Debug("initializing settings schema", "type", config.Type, "table", table)
	if err = database.CreateDatabase(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return database, nil
}
