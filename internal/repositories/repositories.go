// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// scanMovie scans one row selected with movieColumns into a [models.Movie].
//
// [sql.ErrNoRows] is returned unwrapped so callers can map it to [shared.ErrNotFound].
func scanMovie(s scanner) (*models.Movie, error) {
	var (
		movie       models.Movie
		year        sql.NullInt64
		description sql.NullString
		rating      sql.NullFloat64
		ranking     sql.NullInt64
		review      sql.NullString
		imageURL    sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := s.Scan(&movie.ID, &movie.Title, &year, &description, &rating, &ranking, &review, &imageURL, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	if year.Valid {
		movie.Year = models.Ptr(int(year.Int64))
	}
	if description.Valid {
		movie.Description = &description.String
	}
	if rating.Valid {
		movie.Rating = &rating.Float64
	}
	if ranking.Valid {
		movie.Ranking = models.Ptr(int(ranking.Int64))
	}
	if review.Valid {
		movie.Review = &review.String
	}
	if imageURL.Valid {
		movie.ImageURL = &imageURL.String
	}
	movie.CreatedAt = createdAt
	movie.UpdatedAt = updatedAt

	return &movie, nil
}

// requireRow turns a write that touched no rows into [shared.ErrNotFound].
func requireRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: movie %d", shared.ErrNotFound, id)
	}
	return nil
}
