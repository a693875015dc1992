package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/shared"
	tu "github.com/desertthunder/reel/internal/testing"
)

func setupRepo(t *testing.T) *repositories.MovieRepository {
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

	return repositories.NewMovieRepository(db)
}

func newMockService() *tu.MockService {
	return &tu.MockService{
		Results: map[string][]models.Candidate{
			"Inception": {{ExternalID: 27205, Title: "Inception"}, {ExternalID: 64956, Title: "Inception: The Cobol Job"}},
			"Heat":      {{ExternalID: 949, Title: "Heat"}},
			"Alien":     {{ExternalID: 348, Title: "Alien"}},
		},
		Movies: map[int64]*models.Movie{
			27205: {Title: "Inception", Year: models.Ptr(2010)},
			949:   {Title: "Heat", Year: models.Ptr(1995)},
			348:   {Title: "Alien", Year: models.Ptr(1979)},
		},
	}
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var updates []ProgressUpdate
	for {
		select {
		case u := <-ch:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("stores movie with unset rating", func(t *testing.T) {
		repo := setupRepo(t)
		importer := NewMovieImporter(newMockService(), repo)
		progress := make(chan ProgressUpdate, 10)

		movie, err := importer.Import(ctx, progress, 27205)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if movie.ID == 0 || movie.Title != "Inception" {
			t.Errorf("unexpected movie %+v", movie)
		}

		stored, err := repo.Get(ctx, movie.ID)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if stored.Rating != nil || stored.Review != nil || stored.Ranking != nil {
			t.Error("expected rating, review and ranking unset")
		}

		updates := drain(progress)
		if len(updates) != 2 || updates[0].Phase != FetchDetails || updates[1].Phase != SaveMovie {
			t.Errorf("unexpected progress updates %+v", updates)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		importer := NewMovieImporter(newMockService(), setupRepo(t))

		if _, err := importer.Import(ctx, nil, 27205); err != nil {
			t.Fatalf("first import failed: %v", err)
		}
		if _, err := importer.Import(ctx, nil, 27205); !errors.Is(err, shared.ErrDuplicateTitle) {
			t.Errorf("expected ErrDuplicateTitle, got %v", err)
		}
	})

	t.Run("service error", func(t *testing.T) {
		repo := setupRepo(t)
		importer := NewMovieImporter(newMockService(), repo)

		if _, err := importer.Import(ctx, nil, 1); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if n, _ := repo.Count(ctx); n != 0 {
			t.Errorf("expected nothing stored, have %d rows", n)
		}
	})

	t.Run("nil service", func(t *testing.T) {
		importer := NewMovieImporter(nil, setupRepo(t))
		if _, err := importer.Import(ctx, nil, 1); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestBulkImport(t *testing.T) {
	ctx := context.Background()

	t.Run("mixed outcomes", func(t *testing.T) {
		repo := setupRepo(t)
		if err := repo.Create(ctx, &models.Movie{Title: "Heat"}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		service := newMockService()
		importer := NewMovieImporter(service, repo)
		progress := make(chan ProgressUpdate, 20)

		titles := []string{"Inception", "Heat", "Nonexistent", "Alien"}
		result, err := importer.BulkImport(ctx, progress, titles, BulkImportOpts{NumWorkers: 2, RateLimit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Total != 4 || result.Imported != 2 || result.Skipped != 1 || result.NotFound != 1 || result.Failed != 0 {
			t.Errorf("unexpected counts %+v", result)
		}

		want := []ImportStatus{StatusImported, StatusSkipped, StatusNotFound, StatusImported}
		for i, res := range result.Results {
			if res.Query != titles[i] {
				t.Errorf("result %d: expected query %q, got %q", i, titles[i], res.Query)
			}
			if res.Status != want[i] {
				t.Errorf("%s: expected %s, got %s", res.Query, want[i], res.Status)
			}
		}

		if n, _ := repo.Count(ctx); n != 3 {
			t.Errorf("expected 3 rows, got %d", n)
		}

		if len(service.Fetches) != 3 {
			t.Errorf("expected 3 detail fetches, got %v", service.Fetches)
		}

		updates := drain(progress)
		if len(updates) != 5 {
			t.Fatalf("expected start + 4 result updates, got %d", len(updates))
		}
		if updates[0].Phase != BulkImport || updates[0].Total != 4 {
			t.Errorf("unexpected start update %+v", updates[0])
		}
		if !strings.HasPrefix(updates[4].Message, "[4/4]") {
			t.Errorf("unexpected final message %q", updates[4].Message)
		}
	})

	t.Run("search failure", func(t *testing.T) {
		service := newMockService()
		service.Err = errors.New("tmdb down")
		importer := NewMovieImporter(service, setupRepo(t))

		result, err := importer.BulkImport(ctx, nil, []string{"Inception", "Heat"}, BulkImportOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Failed != 2 {
			t.Errorf("expected 2 failures, got %+v", result)
		}
		if !strings.Contains(result.Results[0].Error.Error(), "tmdb down") {
			t.Errorf("expected cause in error, got %v", result.Results[0].Error)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		repo := setupRepo(t)
		importer := NewMovieImporter(newMockService(), repo)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		result, err := importer.BulkImport(cctx, nil, []string{"Inception", "Heat", "Alien"}, BulkImportOpts{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result == nil || len(result.Results) != 3 || result.Failed != 3 {
			t.Errorf("expected every title reported failed, got %+v", result)
		}
		if n, _ := repo.Count(ctx); n != 0 {
			t.Errorf("expected nothing stored, have %d rows", n)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		importer := NewMovieImporter(newMockService(), setupRepo(t))

		result, err := importer.BulkImport(ctx, nil, nil, BulkImportOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 0 || len(result.Results) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("nil service", func(t *testing.T) {
		importer := NewMovieImporter(nil, setupRepo(t))
		if _, err := importer.BulkImport(ctx, nil, []string{"Heat"}, BulkImportOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestReadTitles(t *testing.T) {
	input := "Inception\n\n# favourites\n  Heat  \nAlien\n"

	titles, err := ReadTitles(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Inception", "Heat", "Alien"}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, titles)
	}
}

func TestStrings(t *testing.T) {
	if StatusSkipped.String() != "skipped" || ImportStatus(99).String() != "" {
		t.Error("unexpected status strings")
	}
	if BulkImport.String() != "bulk_import" || Phase(99).String() != "" {
		t.Error("unexpected phase strings")
	}
}
