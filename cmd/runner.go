package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/auth"
	"github.com/desertthunder/tunebase/internal/documents"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/repositories"
	"github.com/desertthunder/tunebase/internal/services"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is resolved per command from the --config file, .env and the environment.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, usersCommand, tokenCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the injected config, or resolves one from the command's --config flag.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	config := r.config
	if config == nil {
		var err error
		if config, err = shared.ResolveConfig(cmd.String("config")); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := shared.SetLogLevel(r.logger, config.Log.Level); err != nil {
		r.logger.Warn("ignoring log level", "error", err)
	}
	return config, nil
}

// openStore connects to the configured backend. SQLite databases are migrated on open.
func (r *Runner) openStore(ctx context.Context, config *shared.Config) (models.Store, error) {
	switch config.Database.Driver {
	case shared.DriverSQLite:
		db, err := shared.NewDatabase(ctx, config.Database.Path)
		if err != nil {
			return nil, err
		}
		if config.Database.Path != ":memory:" {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		}

		applied, err := shared.RunMigrations(ctx, db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if applied > 0 {
			r.logger.Info("applied migrations", "count", applied, "path", config.Database.Path)
		}
		return repositories.NewStore(db), nil

	case shared.DriverMongo:
		store, err := documents.Connect(ctx, config.Database.URI, config.Database.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownDriver, config.Database.Driver)
	}
}

// app holds the services built for one command invocation.
type app struct {
	config   *shared.Config
	store    models.Store
	tokens   *auth.TokenService
	catalog  *services.Catalog
	accounts *services.Accounts
}

func (a *app) Close(ctx context.Context) error {
	return a.store.Close(ctx)
}

// build resolves the config, opens the store and wires the services on top of it.
func (r *Runner) build(ctx context.Context, cmd *cli.Command) (*app, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(config.Auth.Secret, config.Auth.TokenTTL.Duration)
	if err != nil {
		return nil, err
	}

	store, err := r.openStore(ctx, config)
	if err != nil {
		return nil, err
	}

	return &app{
		config:   config,
		store:    store,
		tokens:   tokens,
		catalog:  services.NewCatalog(store, r.logger),
		accounts: services.NewAccounts(store.Users(), tokens, config.Auth.BcryptCost, r.logger),
	}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
