package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/server"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := r.build(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	cfg := a.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	if a.config.Auth.Secret == "change-me" {
		r.logger.Warn("using the example signing secret; set JWT_SECRET or auth.secret")
	}

	srv := server.New(server.Options{
		Config:   cfg,
		Catalog:  a.catalog,
		Accounts: a.accounts,
		Tokens:   a.tokens,
		Logger:   r.logger,
	})

	r.logger.Info("starting server", "driver", a.config.Database.Driver, "addr", cfg.Addr())
	return srv.ListenAndServe(ctx)
}
