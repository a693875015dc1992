// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the web app.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the movie list web app",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the list in the default browser once listening",
			},
			&cli.BoolFlag{
				Name:  "secure-cookies",
				Usage: "Mark the CSRF cookie Secure (serve behind HTTPS)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write an example config.toml to the --config path",
				Action: r.SetupConfig,
			},
		},
	}
}

// moviesCommand mirrors the web operations on the command line.
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Manage the movie list",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List movies in ranking order",
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
				Action: r.MoviesList,
			},
			{
				Name:  "search",
				Usage: "Search TMDB for a title",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesSearch,
			},
			{
				Name:  "import",
				Usage: "Add a movie by its TMDB id",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "tmdb-id",
						Usage:    "TMDB movie id (see 'movies search')",
						Required: true,
					},
				},
				Action: r.MoviesImport,
			},
			{
				Name:  "edit",
				Usage: "Set the rating and review of a movie",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Movie id",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "rating",
						Usage:    "Rating out of 10, e.g. 7.5",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "review",
						Usage:    "Short review",
						Required: true,
					},
				},
				Action: r.MoviesEdit,
			},
			{
				Name:  "delete",
				Usage: "Remove a movie",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Movie id",
						Required: true,
					},
				},
				Action: r.MoviesDelete,
			},
			{
				Name:  "rank",
				Usage: "Set the ranking of a single movie",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Movie id",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "ranking",
						Usage: "Position in the list, 0 clears it",
					},
				},
				Action: r.MoviesRank,
			},
			{
				Name:   "rerank",
				Usage:  "Rank every movie by rating, highest first",
				Action: r.MoviesRerank,
			},
			{
				Name:  "export",
				Usage: "Export the list as CSV, Markdown, text or JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "csv, markdown, txt or json",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (directory for --posters)",
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Markdown only: download posters next to README.md",
					},
				},
				Action: r.MoviesExport,
			},
			{
				Name:  "bulk-import",
				Usage: "Import every title listed in a file, one per line",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "File of titles; blank lines and # comments are skipped",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent lookups (max 10)",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "TMDB requests per second",
						Value: 4,
					},
				},
				Action: r.MoviesBulkImport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing the list.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse the movie list in an interactive TUI",
		Action:  r.TUI,
	}
}
