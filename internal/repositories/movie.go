package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

const movieColumns = `id, title, year, description, rating, ranking, review, img_url, created_at, updated_at`

var _ models.MovieRepository = (*MovieRepository)(nil)

// MovieRepository implements [models.MovieRepository] on top of SQLite.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new [MovieRepository] with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts a new movie and sets its store-assigned ID and timestamps.
//
// A title that already exists fails with [shared.ErrDuplicateTitle].
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO movies (title, year, description, rating, ranking, review, img_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		movie.Title,
		movie.Year,
		movie.Description,
		movie.Rating,
		movie.Ranking,
		movie.Review,
		movie.ImageURL,
		now,
		now,
	)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %q", shared.ErrDuplicateTitle, movie.Title)
		}
		return fmt.Errorf("failed to insert movie: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}

	movie.ID = id
	movie.CreatedAt = now
	movie.UpdatedAt = now
	return nil
}

// Get retrieves a movie by ID. Unknown IDs fail with [shared.ErrNotFound].
func (r *MovieRepository) Get(ctx context.Context, id int64) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`

	movie, err := scanMovie(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: movie %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// List returns every movie ordered by ranking ascending.
//
// Unranked movies (NULL) sort first, which is SQLite's default; ties fall back to insertion order.
func (r *MovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY ranking ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := []*models.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// UpdateReview writes rating and review only.
func (r *MovieRepository) UpdateReview(ctx context.Context, id int64, rating float64, review string) error {
	query := `UPDATE movies SET rating = ?, review = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, rating, review, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	return requireRow(result, id)
}

// SetRanking sets or clears (nil) the ranking of one movie.
func (r *MovieRepository) SetRanking(ctx context.Context, id int64, ranking *int) error {
	query := `UPDATE movies SET ranking = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, ranking, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set ranking: %w", err)
	}
	return requireRow(result, id)
}

// Rerank assigns ranking 1..n ordered by rating descending in one transaction.
// Unrated movies go last in insertion order.
func (r *MovieRepository) Rerank(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM movies ORDER BY rating IS NULL, rating DESC, id ASC`)
	if err != nil {
		return fmt.Errorf("failed to query ratings: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	now := time.Now().UTC()
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE movies SET ranking = ?, updated_at = ? WHERE id = ?`, i+1, now, id); err != nil {
			return fmt.Errorf("failed to rank movie %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rerank: %w", err)
	}
	return nil
}

// Delete permanently removes a movie. Unknown IDs fail with [shared.ErrNotFound].
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	return requireRow(result, id)
}

// Count returns the number of stored movies.
func (r *MovieRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}
