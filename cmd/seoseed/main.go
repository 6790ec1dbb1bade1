package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jo-hoe/seoseed/internal/core"
)

func getConfigPath() (string, bool) {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath, true
	}

	// Default to config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml"), false
}

// loadConfig reads the configuration file. Only a missing default file falls back to
// the built-in configuration; an explicit CONFIG_PATH must exist.
func loadConfig() (*core.ServiceConfig, error) {
	configPath, explicit := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return core.DefaultConfig(), nil
	}
	return config, err
}

func main() {
	core.ConfigureLogging(os.Stderr, "info")

	config, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	core.ConfigureLogging(os.Stderr, config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config); err != nil {
		slog.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, config *core.ServiceConfig) error {
	coreService, err := core.NewCoreService(ctx, config, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := coreService.Close(); err != nil {
			slog.Error("core service close error", "error", err)
		}
	}()

	results, err := coreService.Run(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if !result.Success {
			failed++
		}
	}
	slog.Info("upload finished", "uploaded", len(results)-failed, "failed", failed)
	return nil
}
