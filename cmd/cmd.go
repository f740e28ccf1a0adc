// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles Trakt authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Trakt authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Trakt using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// listsCommand handles Trakt list operations
func listsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lists",
		Aliases: []string{"ls"},
		Usage:   "Browse and select Trakt lists",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the user's Trakt lists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ListsShow,
			},
			{
				Name:  "select",
				Usage: "Choose which lists to sync (interactive unless --slugs is given)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "slugs",
						Usage: "Comma-separated list slugs to select without the picker",
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Clear the current selection",
					},
				},
				Action: r.ListsSelect,
			},
		},
	}
}

// syncCommand handles reconciliation runs
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile selected Trakt lists into Jellyfin playlists",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a sync cycle (continuous when an interval is configured)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "once",
						Usage: "Run a single cycle even when an interval is configured",
					},
					&cli.IntFlag{
						Name:  "interval",
						Usage: "Minutes between cycles (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the cycle summary as JSON",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:  "history",
				Usage: "Show recent sync outcomes from the journal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "slug",
						Usage: "Filter by list slug",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SyncHistory,
			},
		},
	}
}

// exportCommand dumps selected lists to JSON files
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export selected Trakt lists to JSON files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: trakt_export_{timestamp})",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second against Trakt",
				Value: 5.0,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, or text",
				Value:   "json",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the export summary as JSON",
			},
		},
		Action: r.Export,
	}
}

// stateCommand inspects and resets the persisted sync state
func stateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "Inspect and reset sync state",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the persisted sync state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.StateShow,
			},
			{
				Name:  "reset",
				Usage: "Clear sync markers and the resolution cache",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Also clear the list selection",
					},
				},
				Action: r.StateReset,
			},
		},
	}
}

// jellyfinCommand handles Jellyfin server operations
func jellyfinCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "jellyfin",
		Aliases: []string{"jf"},
		Usage:   "Jellyfin server operations",
		Commands: []*cli.Command{
			{
				Name:   "verify",
				Usage:  "Verify connectivity with the Jellyfin server",
				Action: r.JellyfinVerify,
			},
			{
				Name:  "playlists",
				Usage: "List playlists on the Jellyfin server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.JellyfinPlaylists,
			},
		},
	}
}

// setupCommand handles setup operations for the configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the sync history database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
