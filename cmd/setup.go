package main

import (
	"context"
	"fmt"
	"os"

	"github.com/michida/michida/internal/repositories"
	"github.com/michida/michida/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the config template to the given path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Config template written to %s\n", configPath)
	r.writePlain("Fill in backend.url and backend.anon_key, or set MICHIDA_BACKEND_URL and MICHIDA_BACKEND_KEY.\n")
	return nil
}

// SetupDatabase initializes the local cache database, which holds the saved
// session and the recently-played list.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	r.logger.Info("initializing local cache", "path", config.Cache.Path)

	db, err := shared.NewDatabase(config.Cache.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Cache.MaxOpenConns, config.Cache.MaxIdleConns)

	if _, err := repositories.NewKVStore(db); err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	r.logger.Infof("setup complete for cache: %v", config.Cache.Path)
	r.writePlain("✓ Local cache ready at %s\n", config.Cache.Path)
	return nil
}
