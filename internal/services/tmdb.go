// TMDB API implementation of [Service]
//
// TMDB API response types based on https://developer.themoviedb.org/reference
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

const (
	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultTMDBImageURL = "https://image.tmdb.org/t/p/w500"
)

// TMDBSearchResponse is the body of GET /search/movie.
type TMDBSearchResponse struct {
	Page         int               `json:"page"`
	Results      []TMDBMovieResult `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}

// TMDBMovieResult is one hit of a movie search.
type TMDBMovieResult struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	Adult         bool    `json:"adult"`
}

// TMDBMovieDetails is the body of GET /movie/{id}.
type TMDBMovieDetails struct {
	ID          int64   `json:"id"`
	IMDbID      string  `json:"imdb_id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
}

// TMDBOpts contains configuration for [NewTMDBService].
type TMDBOpts struct {
	Token        string        // API read access token, sent as a bearer token
	BaseURL      string        // defaults to https://api.themoviedb.org/3
	ImageBaseURL string        // prefix for poster paths, defaults to the w500 size
	Timeout      time.Duration // zero waits as long as the request context allows
	HTTPClient   *http.Client  // base client; its transport is wrapped with bearer auth
}

// TMDBService implements the [Service] interface for The Movie Database API.
type TMDBService struct {
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
}

var _ Service = (*TMDBService)(nil)

// NewTMDBService creates a TMDB client. The token is required.
func NewTMDBService(opts TMDBOpts) (*TMDBService, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("%w: TMDB token", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultTMDBBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = defaultTMDBImageURL
	}

	var base http.RoundTripper
	if opts.HTTPClient != nil {
		base = opts.HTTPClient.Transport
	}

	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"}),
			Base:   base,
		},
		Timeout: opts.Timeout,
	}

	return &TMDBService{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		httpClient:   client,
	}, nil
}

func (s *TMDBService) Name() string {
	return "TMDB"
}

// SearchMovies calls GET /search/movie with the query and the fixed adult/locale/page parameters.
func (s *TMDBService) SearchMovies(ctx context.Context, query string) ([]models.Candidate, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("language", "en-US")
	params.Set("page", "1")

	var response TMDBSearchResponse
	if err := s.doRequest(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(response.Results))
	for _, r := range response.Results {
		candidates = append(candidates, models.Candidate{
			ExternalID:  r.ID,
			Title:       r.Title,
			ReleaseDate: r.ReleaseDate,
			Overview:    r.Overview,
		})
	}
	return candidates, nil
}

// MovieDetails calls GET /movie/{id}.
func (s *TMDBService) MovieDetails(ctx context.Context, externalID int64) (*TMDBMovieDetails, error) {
	params := url.Values{}
	params.Set("language", "en-US")

	var details TMDBMovieDetails
	endpoint := fmt.Sprintf("/movie/%d", externalID)
	if err := s.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GetMovie fetches details for externalID and maps them with [MapMovie].
func (s *TMDBService) GetMovie(ctx context.Context, externalID int64) (*models.Movie, error) {
	details, err := s.MovieDetails(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return MapMovie(details, s.imageBaseURL)
}

// MapMovie converts TMDB details into an unsaved movie with rating, review and ranking unset.
func MapMovie(details *TMDBMovieDetails, imageBaseURL string) (*models.Movie, error) {
	title := strings.TrimSpace(details.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: movie %d has no title", shared.ErrAPIRequest, details.ID)
	}

	movie := &models.Movie{
		Title: title,
		Year:  ParseYear(details.ReleaseDate),
	}
	if details.Overview != "" {
		movie.Description = models.Ptr(details.Overview)
	}
	if details.PosterPath != "" {
		movie.ImageURL = models.Ptr(strings.TrimRight(imageBaseURL, "/") + "/" + strings.TrimLeft(details.PosterPath, "/"))
	}
	return movie, nil
}

// ParseYear returns the year of a "YYYY-MM-DD" release date, or nil when it is missing or malformed.
func ParseYear(releaseDate string) *int {
	head, _, _ := strings.Cut(strings.TrimSpace(releaseDate), "-")
	if head == "" {
		return nil
	}
	year, err := strconv.Atoi(head)
	if err != nil || year <= 0 {
		return nil
	}
	return &year
}

// doRequest performs an authenticated GET against the TMDB API and decodes the JSON body into result.
func (s *TMDBService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	apiURL := s.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: tmdb status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}
