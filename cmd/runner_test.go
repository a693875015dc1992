package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/shared"
	tu "github.com/desertthunder/reel/internal/testing"
)

type failingMarshaler struct{}

func (failingMarshaler) MarshalJSON() ([]byte, error) {
	return nil, errors.New("boom")
}

func setupRunner(t *testing.T) (*Runner, *repositories.MovieRepository, *tu.MockService, *bytes.Buffer) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repositories.NewMovieRepository(db)
	service := &tu.MockService{
		Results: map[string][]models.Candidate{
			"Inception": {{ExternalID: 27205, Title: "Inception", ReleaseDate: "2010-07-15"}},
			"Heat":      {{ExternalID: 949, Title: "Heat"}},
		},
		Movies: map[int64]*models.Movie{
			27205: {Title: "Inception", Year: models.Ptr(2010)},
			949:   {Title: "Heat", Year: models.Ptr(1995)},
		},
	}
	output := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		Repo:    repo,
		Service: service,
		Logger:  shared.NewLogger(&bytes.Buffer{}),
		Output:  output,
	})
	return runner, repo, service, output
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	return newApp(r).Run(context.Background(), append([]string{"reel", "--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			service := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Service: service,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.service != service {
				t.Error("expected service to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(failingMarshaler{}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}

		failing := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := failing.writePlain("test"); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"serve", "setup", "movies", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("reads file and applies env", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			data := "[server]\nport = 8080\n\n[database]\npath = \"movies.db\"\n\n[log]\nlevel = \"debug\"\n"
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			t.Setenv(shared.EnvTMDBToken, "env-token")

			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{})})
			if err := runner.loadConfig(path); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if runner.config.Server.Port != 8080 || runner.config.Database.Path != "movies.db" {
				t.Errorf("expected file values, got %+v", runner.config)
			}
			if runner.config.TMDB.Token != "env-token" {
				t.Errorf("expected env token, got %q", runner.config.TMDB.Token)
			}
			if runner.config.Server.Host != "127.0.0.1" {
				t.Errorf("expected default host kept, got %q", runner.config.Server.Host)
			}
		})

		t.Run("missing file keeps defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{})})
			if err := runner.loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if runner.config.Server.Port != 5000 {
				t.Errorf("expected default port, got %d", runner.config.Server.Port)
			}
		})

		t.Run("invalid env port", func(t *testing.T) {
			t.Setenv(shared.EnvPort, "http")
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{})})
			if err := runner.loadConfig(""); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("metadata without token", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{})})
		runner.config.TMDB.Token = ""

		if _, err := runner.metadata(); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("movies opens configured database", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{})})
		runner.config.Database.Path = filepath.Join(t.TempDir(), "movies.db")
		defer runner.Close()

		repo, err := runner.movies()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n, err := repo.Count(context.Background()); err != nil || n != 0 {
			t.Errorf("expected empty migrated database, got n=%d err=%v", n, err)
		}
		tu.AssertFileExists(t, runner.config.Database.Path)

		if err := runner.Close(); err != nil {
			t.Errorf("unexpected close error: %v", err)
		}
	})
}

func TestMoviesCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("list empty", func(t *testing.T) {
		runner, _, _, output := setupRunner(t)

		if err := run(t, runner, "movies", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "No movies yet") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("import edit rank list", func(t *testing.T) {
		runner, repo, service, output := setupRunner(t)

		if err := run(t, runner, "movies", "import", "--tmdb-id", "27205"); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if !strings.Contains(output.String(), "✓ Added Inception (2010)") {
			t.Errorf("unexpected import output %q", output.String())
		}
		if len(service.Fetches) != 1 || service.Fetches[0] != 27205 {
			t.Errorf("expected one detail fetch, got %v", service.Fetches)
		}

		movies, _ := repo.List(ctx)
		if len(movies) != 1 {
			t.Fatalf("expected one stored movie, got %d", len(movies))
		}
		id := movies[0].ID

		if err := run(t, runner, "movies", "edit", "--id", itoa(id), "--rating", "9.5", "--review", "  dreamy "); err != nil {
			t.Fatalf("edit failed: %v", err)
		}
		if err := run(t, runner, "movies", "rank", "--id", itoa(id), "--ranking", "1"); err != nil {
			t.Fatalf("rank failed: %v", err)
		}

		stored, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if models.Deref(stored.Rating) != 9.5 || models.Deref(stored.Review) != "dreamy" || models.Deref(stored.Ranking) != 1 {
			t.Errorf("unexpected stored movie %+v", stored)
		}

		output.Reset()
		if err := run(t, runner, "movies", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "1. Inception (2010) - 9.5/10") {
			t.Errorf("unexpected list output %q", output.String())
		}

		output.Reset()
		if err := run(t, runner, "movies", "list", "--json", "--pretty=false"); err != nil {
			t.Fatalf("list --json failed: %v", err)
		}
		var decoded []models.Movie
		if err := json.Unmarshal(output.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode list output: %v", err)
		}
		if len(decoded) != 1 || decoded[0].Title != "Inception" {
			t.Errorf("unexpected decoded list %+v", decoded)
		}
	})

	t.Run("import duplicate", func(t *testing.T) {
		runner, _, _, _ := setupRunner(t)

		if err := run(t, runner, "movies", "import", "--tmdb-id", "27205"); err != nil {
			t.Fatalf("first import failed: %v", err)
		}
		if err := run(t, runner, "movies", "import", "--tmdb-id", "27205"); !errors.Is(err, shared.ErrDuplicateTitle) {
			t.Errorf("expected ErrDuplicateTitle, got %v", err)
		}
	})

	t.Run("edit rejects non-numeric rating", func(t *testing.T) {
		runner, repo, _, _ := setupRunner(t)
		movie := &models.Movie{Title: "Heat"}
		if err := repo.Create(ctx, movie); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		err := run(t, runner, "movies", "edit", "--id", itoa(movie.ID), "--rating", "great", "--review", "tense")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		stored, _ := repo.Get(ctx, movie.ID)
		if stored.Rating != nil {
			t.Error("expected rating unchanged")
		}
	})

	t.Run("edit unknown id", func(t *testing.T) {
		runner, _, _, _ := setupRunner(t)

		err := run(t, runner, "movies", "edit", "--id", "42", "--rating", "7", "--review", "ok")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		runner, repo, _, output := setupRunner(t)
		movie := &models.Movie{Title: "Heat", Year: models.Ptr(1995)}
		if err := repo.Create(ctx, movie); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		if err := run(t, runner, "movies", "delete", "--id", itoa(movie.ID)); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if !strings.Contains(output.String(), "✓ Deleted Heat (1995)") {
			t.Errorf("unexpected output %q", output.String())
		}
		if n, _ := repo.Count(ctx); n != 0 {
			t.Errorf("expected no rows, got %d", n)
		}

		if err := run(t, runner, "movies", "delete", "--id", itoa(movie.ID)); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rerank", func(t *testing.T) {
		runner, repo, _, _ := setupRunner(t)
		low := &models.Movie{Title: "Cats", Rating: models.Ptr(2.0)}
		high := &models.Movie{Title: "Heat", Rating: models.Ptr(9.0)}
		for _, m := range []*models.Movie{low, high} {
			if err := repo.Create(ctx, m); err != nil {
				t.Fatalf("failed to seed: %v", err)
			}
		}

		if err := run(t, runner, "movies", "rerank"); err != nil {
			t.Fatalf("rerank failed: %v", err)
		}

		got, _ := repo.Get(ctx, high.ID)
		if models.Deref(got.Ranking) != 1 {
			t.Errorf("expected highest rating ranked first, got %v", got.Ranking)
		}
	})

	t.Run("search", func(t *testing.T) {
		runner, _, service, output := setupRunner(t)

		if err := run(t, runner, "movies", "search", "Inception"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(output.String(), "27205  Inception (2010-07-15)") {
			t.Errorf("unexpected search output %q", output.String())
		}
		if len(service.Searches) != 1 || service.Searches[0] != "Inception" {
			t.Errorf("unexpected searches %v", service.Searches)
		}

		if err := run(t, runner, "movies", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("export", func(t *testing.T) {
		runner, repo, _, _ := setupRunner(t)
		if err := repo.Create(ctx, &models.Movie{Title: "Heat", Year: models.Ptr(1995)}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		path := filepath.Join(t.TempDir(), "top.csv")
		if err := run(t, runner, "movies", "export", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.Contains(tu.MustReadFile(t, path), "Heat,1995") {
			t.Errorf("unexpected export contents")
		}

		err := run(t, runner, "movies", "export", "--format", "csv", "--posters")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag for posters with csv, got %v", err)
		}
	})

	t.Run("bulk import", func(t *testing.T) {
		runner, repo, _, output := setupRunner(t)

		file := filepath.Join(t.TempDir(), "titles.txt")
		if err := os.WriteFile(file, []byte("# watchlist\nInception\nHeat\nNope\n"), 0644); err != nil {
			t.Fatalf("failed to write titles: %v", err)
		}

		if err := run(t, runner, "movies", "bulk-import", "--file", file, "--rate", "1000"); err != nil {
			t.Fatalf("bulk import failed: %v", err)
		}

		if n, _ := repo.Count(ctx); n != 2 {
			t.Errorf("expected 2 imported movies, got %d", n)
		}
		out := output.String()
		if !strings.Contains(out, "Imported: 2") || !strings.Contains(out, "Not found: 1") {
			t.Errorf("unexpected summary %q", out)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := newApp(runner).Run(context.Background(), []string{"reel", "--config", path, "setup", "config"}); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("written config does not parse: %v", err)
		}

		err := newApp(runner).Run(context.Background(), []string{"reel", "--config", path, "setup", "config"})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for existing config, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(shared.EnvDatabasePath, filepath.Join(dir, "movies.db"))

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})
		defer runner.Close()

		path := filepath.Join(dir, "config.toml")
		if err := newApp(runner).Run(context.Background(), []string{"reel", "--config", path, "setup", "database"}); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		tu.AssertFileExists(t, filepath.Join(dir, "movies.db"))
		if !strings.Contains(output.String(), "(0 movies)") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestServeRequiresConfig(t *testing.T) {
	t.Setenv(shared.EnvSecretKey, "")
	t.Setenv(shared.EnvTMDBToken, "")

	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{})})
	err := run(t, runner, "serve")
	if !errors.Is(err, shared.ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestBrowseURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"127.0.0.1", "http://127.0.0.1:5000/"},
		{"0.0.0.0", "http://localhost:5000/"},
		{"", "http://localhost:5000/"},
		{"::1", "http://[::1]:5000/"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := browseURL(tt.host, 5000); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
