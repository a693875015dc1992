// package tasks implements movie import operations against the metadata service and the store.
//
// The core abstraction is ImportEngine, which imports single movies by external ID and bulk-imports lists of titles.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
)

// ImportStatus is the outcome of importing one movie.
type ImportStatus int

const (
	StatusImported ImportStatus = iota // stored as a new row
	StatusSkipped                      // title already stored
	StatusNotFound                     // search returned no candidates
	StatusFailed                       // service or store error
)

func (s ImportStatus) String() string {
	switch s {
	case StatusImported:
		return "imported"
	case StatusSkipped:
		return "skipped"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return ""
	}
}

// ImportResult represents the result of importing a single title.
type ImportResult struct {
	Query  string        // Title as given, or the external ID for direct imports
	Movie  *models.Movie // Stored movie (nil unless imported)
	Status ImportStatus
	Error  error // Cause when not imported
}

// ImportEngine defines operations for adding movies from the metadata service.
type ImportEngine interface {
	// Import fetches details for one external ID and stores them, leaving rating, review and ranking unset.
	Import(ctx context.Context, progress chan<- ProgressUpdate, externalID int64) (*models.Movie, error)

	// BulkImport searches each title, takes the first candidate and imports it.
	BulkImport(ctx context.Context, progress chan<- ProgressUpdate, titles []string, opts BulkImportOpts) (*BulkImportResult, error)
}

// MovieImporter implements [ImportEngine].
// Contains dependencies on the metadata service and the movie store.
type MovieImporter struct {
	service services.Service
	repo    models.MovieRepository
}

var _ ImportEngine = (*MovieImporter)(nil)

// NewMovieImporter creates a new MovieImporter with the provided service and repository.
func NewMovieImporter(service services.Service, repo models.MovieRepository) *MovieImporter {
	return &MovieImporter{service: service, repo: repo}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MovieImporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import fetches and stores a single movie.
//
// Duplicate titles fail with [shared.ErrDuplicateTitle].
func (e *MovieImporter) Import(ctx context.Context, progress chan<- ProgressUpdate, externalID int64) (*models.Movie, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchDetailsUpdate(1, 2, externalID))

	movie, err := e.service.GetMovie(ctx, externalID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, saveMovieUpdate(2, 2, movie.Title))

	if err := e.repo.Create(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// importTitle runs the search → details → store sequence for one title.
func (e *MovieImporter) importTitle(ctx context.Context, title string, wait func(context.Context) error) ImportResult {
	result := ImportResult{Query: title, Status: StatusFailed}

	if err := wait(ctx); err != nil {
		result.Error = err
		return result
	}

	candidates, err := e.service.SearchMovies(ctx, title)
	if err != nil {
		result.Error = fmt.Errorf("search failed: %w", err)
		return result
	}
	if len(candidates) == 0 {
		result.Status = StatusNotFound
		result.Error = fmt.Errorf("%w: no results for %q", shared.ErrNotFound, title)
		return result
	}

	if err := wait(ctx); err != nil {
		result.Error = err
		return result
	}

	movie, err := e.service.GetMovie(ctx, candidates[0].ExternalID)
	if err != nil {
		result.Error = fmt.Errorf("details failed: %w", err)
		return result
	}

	if err := e.repo.Create(ctx, movie); err != nil {
		if errors.Is(err, shared.ErrDuplicateTitle) {
			result.Status = StatusSkipped
		}
		result.Error = err
		return result
	}

	result.Movie = movie
	result.Status = StatusImported
	result.Error = nil
	return result
}
