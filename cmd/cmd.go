// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand starts the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the catalog HTTP API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles database and config initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and storage",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Run pending migrations (sqlite) or create indexes (mongo)",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent sqlite migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// usersCommand handles account operations
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage API accounts",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an account",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.UsersCreate,
			},
		},
	}
}

// tokenCommand handles bearer token operations
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Bearer token operations",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Issue a bearer token for an existing account",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the full session as JSON",
					},
				},
				Action: r.TokenIssue,
			},
		},
	}
}

// exportCommand writes the catalog to files or stdout
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog as csv, markdown, txt or json",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, markdown, txt, json)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path; stdout when empty (directory with --by-artist)",
			},
			&cli.BoolFlag{
				Name:  "by-artist",
				Usage: "Write one export per artist plus a manifest",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent writers for --by-artist",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Artist exports started per second with --by-artist (0: unlimited)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand launches the terminal catalog browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the catalog in the terminal",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TUI,
	}
}
