package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/desertthunder/reel/internal/formatter"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/desertthunder/reel/internal/validation"
	"github.com/urfave/cli/v3"
)

// MoviesList prints the stored movies in ranking order.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.movies()
	if err != nil {
		return err
	}

	movies, err := repo.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if movies == nil {
			movies = []*models.Movie{}
		}
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		return r.writePlain("No movies yet. Add one with 'reel movies import' or the web app.\n")
	}

	r.writePlainHeader(fmt.Sprintf("My Top Movies (%d)", len(movies)))
	for _, movie := range movies {
		r.writePlain("%4d  %s\n", movie.ID, movieLine(movie))
	}
	return nil
}

// MoviesSearch lists TMDB candidates for a title.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	service, err := r.metadata()
	if err != nil {
		return err
	}

	r.logger.Debug("searching", "service", service.Name(), "query", query)
	candidates, err := service.SearchMovies(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if candidates == nil {
			candidates = []models.Candidate{}
		}
		return r.writeJSON(candidates, true)
	}

	if len(candidates) == 0 {
		return r.writePlain("No results for %q\n", query)
	}

	for _, c := range candidates {
		line := fmt.Sprintf("%8d  %s", c.ExternalID, c.Title)
		if c.ReleaseDate != "" {
			line += fmt.Sprintf(" (%s)", c.ReleaseDate)
		}
		r.writePlain("%s\n", line)
	}
	r.writePlainln("Add one with 'reel movies import --tmdb-id <id>'")
	return nil
}

// MoviesImport fetches one movie from TMDB and stores it unrated.
func (r *Runner) MoviesImport(ctx context.Context, cmd *cli.Command) error {
	externalID := cmd.Int64("tmdb-id")
	if externalID <= 0 {
		return fmt.Errorf("%w: --tmdb-id must be positive", shared.ErrInvalidArgument)
	}

	engine, err := r.importer()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 4)
	done := r.printProgress(progress)

	movie, err := engine.Import(ctx, progress, externalID)
	close(progress)
	done.Wait()

	if err != nil {
		return err
	}

	r.logger.Info("imported movie", "id", movie.ID, "title", movie.Title)
	r.writePlain("✓ Added %s (id %d)\n", headline(movie), movie.ID)
	r.writePlain("Rate it with 'reel movies edit --id %d --rating 8 --review \"...\"'\n", movie.ID)
	return nil
}

// MoviesEdit sets rating and review, validated the same way as the web form.
func (r *Runner) MoviesEdit(ctx context.Context, cmd *cli.Command) error {
	form := validation.EditForm{
		Rating: cmd.String("rating"),
		Review: cmd.String("review"),
	}
	if ferr := validation.ValidateStruct(form); ferr != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, ferr)
	}
	rating := form.RatingValue()

	repo, err := r.movies()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	if err := repo.UpdateReview(ctx, id, rating, strings.TrimSpace(form.Review)); err != nil {
		return err
	}

	r.writePlain("✓ Updated movie %d: %s/10\n", id, formatter.RatingString(&rating))
	return nil
}

// MoviesDelete removes one movie.
func (r *Runner) MoviesDelete(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.movies()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	movie, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Deleted %s\n", headline(movie))
	return nil
}

// MoviesRank sets the ranking of one movie; --ranking 0 (or omitted) clears it.
func (r *Runner) MoviesRank(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.movies()
	if err != nil {
		return err
	}

	ranking := cmd.Int("ranking")
	if ranking < 0 {
		return fmt.Errorf("%w: --ranking must not be negative", shared.ErrInvalidArgument)
	}

	var value *int
	if ranking > 0 {
		value = &ranking
	}

	id := cmd.Int64("id")
	if err := repo.SetRanking(ctx, id, value); err != nil {
		return err
	}

	if value == nil {
		r.writePlain("✓ Cleared ranking of movie %d\n", id)
	} else {
		r.writePlain("✓ Movie %d ranked #%d\n", id, ranking)
	}
	return nil
}

// MoviesRerank ranks every movie by rating, highest first.
func (r *Runner) MoviesRerank(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.movies()
	if err != nil {
		return err
	}

	if err := repo.Rerank(ctx); err != nil {
		return err
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ Reranked %d movies\n", count)
	return nil
}

// MoviesExport writes the list in the chosen format.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	posters := cmd.Bool("posters")
	if posters && format != formatter.FormatMarkdown {
		return fmt.Errorf("%w: --posters requires --format markdown", shared.ErrInvalidFlag)
	}

	repo, err := r.movies()
	if err != nil {
		return err
	}

	movies, err := repo.List(ctx)
	if err != nil {
		return err
	}

	if posters {
		result, err := formatter.WriteMarkdownExport(ctx, movies, cmd.String("output"), true, r.output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d movies to %s (%d posters)\n", len(movies), result.Directory, result.Posters)
		return nil
	}

	path, err := formatter.WriteExport(movies, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported movies", "format", format, "path", path)
	r.writePlain("✓ Exported %d movies to %s\n", len(movies), path)
	return nil
}

// MoviesBulkImport imports every title in --file, reporting each outcome.
func (r *Runner) MoviesBulkImport(ctx context.Context, cmd *cli.Command) error {
	f, err := os.Open(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open titles file: %w", err)
	}
	titles, err := tasks.ReadTitles(f)
	f.Close()
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return fmt.Errorf("%w: no titles in %s", shared.ErrInvalidInput, cmd.String("file"))
	}

	engine, err := r.importer()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, len(titles)+1)
	done := r.printProgress(progress)

	result, err := engine.BulkImport(ctx, progress, titles, tasks.BulkImportOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	done.Wait()

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Bulk Import Complete")
		r.writePlain("Imported: %d\n", result.Imported)
		r.writePlain("Skipped (already listed): %d\n", result.Skipped)
		r.writePlain("Not found: %d\n", result.NotFound)
		r.writePlain("Failed: %d\n", result.Failed)

		for _, res := range result.Results {
			if res.Status == tasks.StatusFailed || res.Status == tasks.StatusNotFound {
				r.writePlain("  - %s: %v\n", res.Query, res.Error)
			}
		}
	}

	return err
}

// printProgress echoes updates until the channel is closed.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			switch update.Phase {
			case tasks.BulkImport:
				if update.Step == 0 {
					r.writePlain("📥 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			default:
				r.writePlain("📥 %s\n", update.Message)
			}
		}
	}()
	return &wg
}

func movieLine(movie *models.Movie) string {
	rank := "-."
	if movie.Ranking != nil {
		rank = fmt.Sprintf("%d.", *movie.Ranking)
	}

	line := fmt.Sprintf("%s %s", rank, headline(movie))
	if movie.Rating != nil {
		line += fmt.Sprintf(" - %s/10", formatter.RatingString(movie.Rating))
	}
	return line
}

func headline(movie *models.Movie) string {
	if movie.Year == nil {
		return movie.Title
	}
	return fmt.Sprintf("%s (%d)", movie.Title, *movie.Year)
}
