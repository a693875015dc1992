package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The repository and metadata service are opened lazily so commands that need
// neither (setup config, --help) work without a database or token.
type Runner struct {
	config  *shared.Config
	service services.Service
	repo    models.MovieRepository
	db      *sql.DB
	logger  *log.Logger
	output  io.Writer
	engine  tasks.ImportEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.Service
	Repo    models.MovieRepository
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		service: opts.Service,
		repo:    opts.Repo,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, moviesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads the config file named by --config (when it exists), applies
// environment overrides and sets the log level. Runs before every command.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	return ctx, r.loadConfig(cmd.String("config"))
}

func (r *Runner) loadConfig(path string) error {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
	}

	if err := r.config.ApplyEnv(); err != nil {
		return err
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		r.logger.Warn("ignoring log level", "error", err)
	}
	shared.SetLogLevel(r.logger, level)
	return nil
}

// SetLogger replaces the runner's logger, e.g. to move output off the terminal for the TUI.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// movies returns the movie repository, opening and migrating the configured database on first use.
func (r *Runner) movies() (models.MovieRepository, error) {
	if r.repo != nil {
		return r.repo, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	if r.config.Database.Path != ":memory:" {
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Debug("opened database", "path", r.config.Database.Path)
	r.db = db
	r.repo = repositories.NewMovieRepository(db)
	return r.repo, nil
}

// metadata returns the TMDB service, building it from the config on first use.
func (r *Runner) metadata() (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	svc, err := services.NewTMDBService(services.TMDBOpts{
		Token:        r.config.TMDB.Token,
		BaseURL:      r.config.TMDB.BaseURL,
		ImageBaseURL: r.config.TMDB.ImageBaseURL,
		Timeout:      time.Duration(r.config.TMDB.Timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: set tmdb.token or %s", err, shared.EnvTMDBToken)
	}
	r.service = svc
	return svc, nil
}

// importer wires the import engine to the repository and metadata service.
func (r *Runner) importer() (tasks.ImportEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	repo, err := r.movies()
	if err != nil {
		return nil, err
	}
	service, err := r.metadata()
	if err != nil {
		return nil, err
	}

	r.engine = tasks.NewMovieImporter(service, repo)
	return r.engine, nil
}

// Close releases the database opened by the runner, if any.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
