package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/models"
)

// UsersCreate registers an account from the command line.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	a, err := r.build(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	user, err := a.accounts.Register(ctx, models.Credentials{
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}
	return r.writePlain("✓ created user %s (%s)\n", user.Email, user.ID)
}

// TokenIssue signs a bearer token for an existing account.
func (r *Runner) TokenIssue(ctx context.Context, cmd *cli.Command) error {
	a, err := r.build(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	session, err := a.accounts.IssueToken(ctx, cmd.String("email"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(session, true)
	}
	return r.writePlain("%s\n", session.Token)
}
