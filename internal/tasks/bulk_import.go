package tasks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/reel/internal/shared"
)

// BulkImportOpts contains configuration for bulk imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 3, max: 10)
	RateLimit  float64 // TMDB requests per second across all workers (default: 4)
}

// BulkImportResult summarises a bulk import. Results keep the input order.
type BulkImportResult struct {
	Total    int
	Imported int
	Skipped  int
	NotFound int
	Failed   int
	Results  []ImportResult
}

type importJob struct {
	index int
	title string
}

type indexedResult struct {
	index int
	ImportResult
}

// BulkImport imports titles concurrently with rate limiting and progress tracking.
//
// Every title gets exactly one result; a cancelled context marks the remaining titles failed.
func (e *MovieImporter) BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	titles []string,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan importJob, len(titles))
	results := make(chan indexedResult, len(titles))

	for i, title := range titles {
		jobs <- importJob{index: i, title: title}
	}
	close(jobs)

	e.sendProgress(prog, bulkStartUpdate(len(titles)))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.importWorker(ctx, &wg, jobs, results, limiter)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]indexedResult, 0, len(titles))
	for res := range results {
		collected = append(collected, res)
		e.sendProgress(prog, importResultUpdate(len(collected), len(titles), res.ImportResult))
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	result := &BulkImportResult{
		Total:   len(titles),
		Results: make([]ImportResult, 0, len(collected)),
	}
	for _, res := range collected {
		result.Results = append(result.Results, res.ImportResult)
		switch res.Status {
		case StatusImported:
			result.Imported++
		case StatusSkipped:
			result.Skipped++
		case StatusNotFound:
			result.NotFound++
		default:
			result.Failed++
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// importWorker drains jobs; once ctx is done it reports remaining titles as failed without calling out.
func (e *MovieImporter) importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan importJob,
	results chan<- indexedResult,
	limiter *rate.Limiter,
) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- indexedResult{job.index, ImportResult{Query: job.title, Status: StatusFailed, Error: err}}
			continue
		}
		results <- indexedResult{job.index, e.importTitle(ctx, job.title, limiter.Wait)}
	}
}

// ReadTitles reads one title per line, skipping blank lines and lines starting with "#".
func ReadTitles(r io.Reader) ([]string, error) {
	var titles []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read titles: %w", err)
	}
	return titles, nil
}
