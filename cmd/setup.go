package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// loadConfigOrCreate loads the config at path, writing the template first when the file is missing.
func (r *Runner) loadConfigOrCreate(path string) *shared.Config {
	var config *shared.Config
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
		return config
	}

	r.logger.Info("config file not found, creating from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warn("failed to create config file, using defaults", "error", err)
		return shared.DefaultConfig()
	}

	r.logger.Info("config file created", "path", path)
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load created config, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	return config
}

// SetupConfig writes config.toml from the embedded template unless it already exists.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		return r.writePlain("Config already exists at %s\n", configPath)
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	return r.writePlain("✓ Config written to %s\n", configPath)
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfigOrCreate(cmd.String("config"))
	if err := config.ApplyEnv(); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	if len(applied) == 0 {
		return r.writePlain("✓ Database %s is up to date\n", config.Database.Path)
	}
	return r.writePlain("✓ Database %s ready (%d migrations applied)\n", config.Database.Path, len(applied))
}
