package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchDetails Phase = iota
	SaveMovie
	BulkImport
)

func (p Phase) String() string {
	switch p {
	case FetchDetails:
		return "fetch_details"
	case SaveMovie:
		return "save_movie"
	case BulkImport:
		return "bulk_import"
	default:
		return ""
	}
}

func fetchDetailsUpdate(step, total int, externalID int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching details for TMDB movie %d...", externalID),
	}
}

func saveMovieUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveMovie,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Saving %s...", title),
	}
}

func bulkStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BulkImport,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d titles...", total),
	}
}

func importResultUpdate(step, total int, res ImportResult) ProgressUpdate {
	var message string
	switch res.Status {
	case StatusImported:
		message = fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Movie.Title)
	case StatusSkipped:
		message = fmt.Sprintf("[%d/%d] = %s (already in list)", step, total, res.Query)
	case StatusNotFound:
		message = fmt.Sprintf("[%d/%d] ? %s (no results)", step, total, res.Query)
	default:
		message = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Query, res.Error)
	}

	return ProgressUpdate{
		Phase:   BulkImport,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    res,
	}
}
