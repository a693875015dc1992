// Package tasks imports movies from the metadata service into the store with real-time progress reporting.
//
// # Core Operations
//
// The [ImportEngine] interface defines two operations:
//
//  1. [ImportEngine.Import] : Single import by TMDB ID
//     - Fetches movie details
//     - Stores a new row with rating, review and ranking unset
//
//  2. [ImportEngine.BulkImport] : Import a list of titles
//     - Searches each title and takes the first candidate
//     - Fetches details and stores the movie
//     - Titles already in the list are reported as skipped, not failed
//
// # Concurrency
//
// BulkImport uses a fixed pool of workers reading from a buffered job channel. All workers share
// one [rate.Limiter] so the combined request rate against TMDB stays under [BulkImportOpts.RateLimit].
// Results are collected on a single goroutine and returned in input order.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
