package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/documents"
	"github.com/desertthunder/tunebase/internal/shared"
)

// SetupDatabase runs pending sqlite migrations, or ensures mongo indexes.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if config.Database.Driver == shared.DriverMongo {
		r.logger.Info("ensuring indexes", "database", config.Database.Name)
		store, err := documents.Connect(ctx, config.Database.URI, config.Database.Name)
		if err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		defer store.Close(ctx)

		r.writePlain("✓ indexes ready on %s\n", config.Database.Name)
		return nil
	}

	db, err := r.openSQLite(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("running database migrations", "path", config.Database.Path)
	applied, err := shared.RunMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlain("✓ applied %d migration(s) to %s\n", applied, config.Database.Path)
	return nil
}

// SetupRollback rolls back the most recent sqlite migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if config.Database.Driver != shared.DriverSQLite {
		return fmt.Errorf("%w: rollback is only supported for sqlite", shared.ErrInvalidArgument)
	}

	db, err := r.openSQLite(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := shared.RollbackMigration(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}

	r.writePlain("✓ rolled back migration %04d\n", version)
	return nil
}

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ wrote %s\n", path)
	r.writePlain("Set auth.secret (or JWT_SECRET) before serving.\n")
	return nil
}

func (r *Runner) openSQLite(ctx context.Context, config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(ctx, config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	if config.Database.Path != ":memory:" {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	}
	return db, nil
}
