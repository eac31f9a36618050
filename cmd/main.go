package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/myflix/internal/repositories"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}
	if err := config.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	if err := shared.ConfigureLogLevel(logger, config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	repo := repositories.NewSessionRepository(db)
	sess := session.New(repo)
	if err := sess.Init(ctx); err != nil {
		logger.Warn("starting without a saved session", "error", err)
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL:   config.API.BaseURL,
		Session:   sess,
		Timeout:   config.API.Timeout(),
		RateLimit: config.API.RateLimit,
		Logger:    shared.WithLogger(logger, "component", "api"),
	})

	runner := NewRunner(RunnerOpts{
		Config: config,
		Client: client,
		Events: repo,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "myflix",
		Usage:    "Browse the myFlix movie catalog and manage your favorites",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		logger.Fatalf("application error: %v", err)
	}
}
