// package formatter provides functions to export the movie list to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or a common alias ("md", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, markdown, txt or json)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Export renders movies in the given format.
func Export(movies []*models.Movie, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(movies)
	case FormatMarkdown:
		return ExportToMarkdown(movies, nil)
	case FormatText:
		return ExportToText(movies)
	case FormatJSON:
		return ExportToJSON(movies)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts movies to CSV with columns: ID, Ranking, Title, Year, Rating, Review, Description, ImageURL
func ExportToCSV(movies []*models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Ranking", "Title", "Year", "Rating", "Review", "Description", "ImageURL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range movies {
		record := []string{
			strconv.FormatInt(movie.ID, 10),
			intString(movie.Ranking),
			movie.Title,
			intString(movie.Year),
			RatingString(movie.Rating),
			models.Deref(movie.Review),
			models.Deref(movie.Description),
			models.Deref(movie.ImageURL),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts movies to a Markdown list.
//
// posters maps movie IDs to local image paths; movies without an entry are listed without one.
func ExportToMarkdown(movies []*models.Movie, posters map[int64]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# My Top Movies\n\n")
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(movies)))

	for _, movie := range movies {
		buf.WriteString(fmt.Sprintf("## %s %s\n\n", rankLabel(movie.Ranking), headline(movie)))

		if path, ok := posters[movie.ID]; ok {
			buf.WriteString(fmt.Sprintf("![Poster](%s)\n\n", path))
		}
		if movie.Rating != nil {
			buf.WriteString(fmt.Sprintf("**Rating**: %s/10\n\n", RatingString(movie.Rating)))
		}
		if movie.Review != nil {
			buf.WriteString(fmt.Sprintf("**Review**: %s\n\n", *movie.Review))
		}
		if movie.Description != nil {
			buf.WriteString(fmt.Sprintf("%s\n\n", *movie.Description))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts movies to plain text, one line per movie.
func ExportToText(movies []*models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(movies)))

	for _, movie := range movies {
		line := fmt.Sprintf("%s %s", rankLabel(movie.Ranking), headline(movie))
		if movie.Rating != nil {
			line += fmt.Sprintf(" - %s/10", RatingString(movie.Rating))
		}
		if movie.Review != nil {
			line += fmt.Sprintf(" - %q", *movie.Review)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts movies to indented JSON.
func ExportToJSON(movies []*models.Movie) ([]byte, error) {
	if movies == nil {
		movies = []*models.Movie{}
	}
	return shared.MarshalJSON(movies, true)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteExport renders movies in format f and writes them to path.
//
// Defaults to movies.{ext} in the working directory.
func WriteExport(movies []*models.Movie, f Format, path string) (string, error) {
	if path == "" {
		path = "movies." + f.Extension()
	}

	data, err := Export(movies, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   int
}

// WriteMarkdownExport exports movies to Markdown in a dedicated directory.
//
// Directory name defaults to "movies".
// When withPosters is set, each poster is downloaded to {dir}/posters/{id}.jpg; failed downloads are
// reported on warn and the movie is listed without an image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/posters/
func WriteMarkdownExport(ctx context.Context, movies []*models.Movie, outputDir string, withPosters bool, warn io.Writer) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "movies"
	}
	if warn == nil {
		warn = io.Discard
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	posters := map[int64]string{}
	if withPosters {
		posterDir := filepath.Join(outputDir, "posters")
		if err := os.MkdirAll(posterDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create poster directory: %w", err)
		}

		for _, movie := range movies {
			if movie.ImageURL == nil {
				continue
			}

			imageData, err := DownloadImage(ctx, *movie.ImageURL)
			if err != nil {
				fmt.Fprintf(warn, "Warning: failed to download poster for %q: %v\n", movie.Title, err)
				continue
			}

			name := fmt.Sprintf("%d.jpg", movie.ID)
			if err := os.WriteFile(filepath.Join(posterDir, name), imageData, 0644); err != nil {
				fmt.Fprintf(warn, "Warning: failed to save poster for %q: %v\n", movie.Title, err)
				continue
			}

			posters[movie.ID] = "posters/" + name
			result.Files = append(result.Files, filepath.Join(posterDir, name))
			result.Posters++
		}
	}

	mdData, err := ExportToMarkdown(movies, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// RatingString formats a rating without trailing zeros; nil gives "".
func RatingString(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func rankLabel(r *int) string {
	if r == nil {
		return "-."
	}
	return strconv.Itoa(*r) + "."
}

func headline(movie *models.Movie) string {
	if movie.Year == nil {
		return movie.Title
	}
	return fmt.Sprintf("%s (%d)", movie.Title, *movie.Year)
}
