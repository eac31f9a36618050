// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags(prettyDefault bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: prettyDefault,
		},
	}
}

func bulkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent requests (max 10)",
			Value: 3,
		},
		&cli.FloatFlag{
			Name:  "rate",
			Usage: "Requests per second",
			Value: 5,
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a configuration file from the template",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles account creation and the login session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create a myFlix account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "YYYY-MM-DD"},
					&cli.BoolFlag{Name: "login", Usage: "Log in after registering"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Log in and store the session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the current session and recent session events",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "events",
						Usage: "Number of recent events to show",
						Value: 5,
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles catalog browsing
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all movies, marking favorites",
				Flags: append(jsonFlags(false), &cli.BoolFlag{
					Name:  "featured",
					Usage: "Only show featured movies",
				}),
				Action: r.MoviesList,
			},
			{
				Name:      "get",
				Usage:     "Show one movie by title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags:     jsonFlags(true),
				Action:    r.MoviesGet,
			},
			{
				Name:      "genre",
				Usage:     "Show a genre's description",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     jsonFlags(true),
				Action:    r.MoviesGenre,
			},
			{
				Name:      "director",
				Usage:     "Show a director's bio",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     jsonFlags(true),
				Action:    r.MoviesDirector,
			},
			{
				Name:      "synopsis",
				Usage:     "Show a movie's synopsis",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Action:    r.MoviesSynopsis,
			},
			{
				Name:      "open",
				Usage:     "Open a movie's poster in the browser",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Action:    r.MoviesOpen,
			},
		},
	}
}

// favoritesCommand handles the favorites list
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorite movies",
				Flags:  jsonFlags(false),
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add movies (titles or IDs) to favorites",
				ArgsUsage: "<movie>...",
				Flags:     bulkFlags(),
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove movies (titles or IDs) from favorites",
				ArgsUsage: "<movie>...",
				Flags:     bulkFlags(),
				Action:    r.FavoritesRemove,
			},
			{
				Name:  "export",
				Usage: "Export favorites as json, csv, markdown or txt",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (directory for markdown); stdout when empty",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "json, csv, markdown or txt (default: from --output extension)",
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Download poster images (markdown only)",
					},
				},
				Action: r.FavoritesExport,
			},
			{
				Name:      "import",
				Usage:     "Add favorites from an exported file",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: append(bulkFlags(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "json, csv, markdown or txt (default: from file extension)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Resolve movies without changing favorites",
					},
				),
				Action: r.FavoritesImport,
			},
		},
	}
}

// profileCommand handles the account profile
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "View and edit your account",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show account details",
				Flags:  jsonFlags(true),
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update account details",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
					&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "YYYY-MM-DD"},
				},
				Action: r.ProfileUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete the account and log out",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.ProfileDelete,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the myFlix API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// serverCommand runs the local API server
func serverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run a local myFlix-compatible API for development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port from config)",
			},
			&cli.BoolFlag{
				Name:  "seed",
				Usage: "Load the sample catalog",
				Value: true,
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Action:  r.TUI,
	}
}
