// package services defines interface Service for interacting with movie metadata HTTP APIs
//
// TMDB
package services

import (
	"context"

	"github.com/desertthunder/reel/internal/models"
)

// Service defines the interface for movie metadata providers used when adding movies.
type Service interface {
	// SearchMovies returns the first page of candidates matching a free-text title query.
	SearchMovies(ctx context.Context, query string) ([]models.Candidate, error)

	// GetMovie fetches the details for an external ID and maps them onto an unsaved [models.Movie].
	// Rating, review and ranking are always left unset.
	GetMovie(ctx context.Context, externalID int64) (*models.Movie, error)

	// Name returns the name of the service (e.g., "TMDB")
	Name() string
}
