package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reel/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
//
// Creates the config file from the template first when it does not exist yet.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if created, err := r.ensureConfig(configPath); err != nil {
		r.logger.Warn("failed to create config file, using defaults", "error", err)
	} else if created {
		if err := r.loadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	repo, err := r.movies()
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready at %s (%d movies)\n", r.config.Database.Path, count)
	return nil
}

// SetupConfig writes the example config file to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	created, err := r.ensureConfig(configPath)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%w: config file already exists at %s", shared.ErrInvalidArgument, configPath)
	}

	r.writePlain("✓ Config written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set tmdb.token (or %s) to your TMDB API read access token\n", shared.EnvTMDBToken)
	r.writePlain("2. Set server.secret_key (or %s) to a long random string\n", shared.EnvSecretKey)
	r.writePlain("3. Run 'reel serve --open'\n")
	return nil
}

// ensureConfig creates the config file at path unless it already exists.
func (r *Runner) ensureConfig(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("%w: --config", shared.ErrMissingArgument)
	}
	if fileExists(path) {
		return false, nil
	}

	r.logger.Info("config file not found, creating from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return false, err
	}
	r.logger.Info("config file created", "path", path)
	return true, nil
}
