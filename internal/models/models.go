// package models defines the data model for the movie ranking web app
package models

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Movie is a single ranked movie. Nil pointer fields are stored as NULL.
type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Rating      *float64  `json:"rating"`
	Ranking     *int      `json:"ranking"`
	Review      *string   `json:"review"`
	ImageURL    *string   `json:"img_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var _ Model = (*Movie)(nil)

// Validate checks that the movie has a title.
func (m *Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// Candidate is a movie search result from the metadata API.
type Candidate struct {
	ExternalID  int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error    // Create inserts a new model and assigns its ID
	Get(ctx context.Context, id int64) (T, error) // Get retrieves a model by its ID
	Delete(ctx context.Context, id int64) error   // Delete removes a model from the database by its ID
	List(ctx context.Context) ([]T, error)        // List retrieves all models in display order
}

// MovieRepository adds the movie specific writes to [Repository].
type MovieRepository interface {
	Repository[*Movie]

	// UpdateReview sets rating and review and leaves every other column alone.
	UpdateReview(ctx context.Context, id int64, rating float64, review string) error

	// SetRanking sets the display ranking of a single movie; nil clears it.
	SetRanking(ctx context.Context, id int64, ranking *int) error

	// Rerank assigns ranking 1..n by rating descending, unrated movies last.
	Rerank(ctx context.Context) error

	// Count returns the number of stored movies.
	Count(ctx context.Context) (int, error)
}

// Ptr returns a pointer to v. Handy for populating optional [Movie] fields.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
