package main

import (
	"context"
	"errors"
	"os"

	"github.com/michida/michida/internal/repositories"
	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	shared.ApplyEnv(config)

	opts := RunnerOpts{Config: config, Logger: logger}

	if config.Backend.URL != "" && config.Backend.AnonKey != "" {
		if backend, err := services.NewSupabaseService(config.Backend.URL, config.Backend.AnonKey, nil); err == nil {
			backend.SetProvider(config.Auth.Provider)
			opts.Backend = backend
		}
	}

	if db, err := shared.NewDatabase(config.Cache.Path); err == nil {
		shared.ConfigureDatabase(db, config.Cache.MaxOpenConns, config.Cache.MaxIdleConns)
		if kv, err := repositories.NewKVStore(db); err == nil {
			opts.DB = db
			opts.KV = kv
		} else {
			logger.Warn("local cache unavailable", "err", err)
			db.Close()
		}
	} else {
		logger.Warn("local cache unavailable", "err", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "michida",
		Usage:    "Browse, play, and curate the shared music feed",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrSignInRequired) {
			logger.Error("sign in required, run 'michida auth login'")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
