package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/server"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/validation"
)

// HandlerOpts contains the dependencies of [Handler].
type HandlerOpts struct {
	Repo    models.MovieRepository
	Service services.Service
	Logger  *log.Logger
}

// Handler serves the movie list pages.
type Handler struct {
	repo      models.MovieRepository
	service   services.Service
	logger    *log.Logger
	templates map[string]*template.Template
}

var _ server.Handler = (*Handler)(nil)

// pageData is passed to every template.
type pageData struct {
	Title      string
	CSRFToken  string
	Movies     []*models.Movie
	Movie      *models.Movie
	Candidates []models.Candidate
	Query      string
	Form       map[string]string
	Errors     map[string]string
	Status     int
	Message    string
}

// NewHandler parses the embedded templates and returns a ready [Handler].
func NewHandler(opts HandlerOpts) (*Handler, error) {
	if opts.Repo == nil {
		return nil, fmt.Errorf("%w: movie repository", shared.ErrMissingArgument)
	}
	if opts.Service == nil {
		return nil, fmt.Errorf("%w: metadata service", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		repo:      opts.Repo,
		service:   opts.Service,
		logger:    opts.Logger,
		templates: templates,
	}, nil
}

// Routes implements [server.Handler].
func (h *Handler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: "/", Handler: h.List},
		{Method: http.MethodGet, Path: "/add", Handler: h.AddForm},
		{Method: http.MethodPost, Path: "/add", Handler: h.Add},
		{Method: http.MethodGet, Path: "/search", Handler: h.Select},
		{Method: http.MethodGet, Path: "/edit", Handler: h.EditForm},
		{Method: http.MethodPost, Path: "/edit", Handler: h.Edit},
		{Method: http.MethodGet, Path: "/delete", Handler: h.Delete},
		{Method: http.MethodGet, Path: "/healthz", Handler: h.Health},
	}
}

// List renders every stored movie ordered by ranking.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.repo.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index.html", &pageData{Movies: movies})
}

// AddForm renders the empty title search form.
func (h *Handler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "add.html", &pageData{Title: "Add Movie"})
}

// Add searches TMDB for the submitted title and renders the candidates. Nothing is stored.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	form := validation.AddForm{Title: strings.TrimSpace(r.PostFormValue("title"))}

	if verr := validation.ValidateStruct(&form); verr != nil {
		h.render(w, r, http.StatusOK, "add.html", &pageData{
			Title:  "Add Movie",
			Form:   map[string]string{"title": form.Title},
			Errors: verr.Fields(),
		})
		return
	}

	candidates, err := h.service.SearchMovies(r.Context(), form.Title)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "select.html", &pageData{
		Title:      "Select Movie",
		Query:      form.Title,
		Candidates: candidates,
	})
}

// Select imports the chosen candidate and redirects to its edit page.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("movie_id")
	externalID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || externalID <= 0 {
		h.handleError(w, r, fmt.Errorf("%w: movie_id %q", shared.ErrInvalidInput, raw))
		return
	}

	movie, err := h.service.GetMovie(r.Context(), externalID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.repo.Create(r.Context(), movie); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("imported movie", "id", movie.ID, "title", movie.Title, "tmdb_id", externalID)
	http.Redirect(w, r, fmt.Sprintf("/edit?id=%d", movie.ID), http.StatusFound)
}

// EditForm renders the rating/review form pre-populated with the stored values.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	movie, err := h.lookup(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "edit.html", &pageData{
		Title: movie.Title,
		Movie: movie,
		Form: map[string]string{
			"rating": formatRating(movie.Rating),
			"review": models.Deref(movie.Review),
		},
	})
}

// Edit validates and stores the rating and review, then redirects to the list.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	movie, err := h.lookup(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	form := validation.EditForm{
		Rating: strings.TrimSpace(r.PostFormValue("rating")),
		Review: strings.TrimSpace(r.PostFormValue("review")),
	}

	if verr := validation.ValidateStruct(&form); verr != nil {
		h.render(w, r, http.StatusOK, "edit.html", &pageData{
			Title:  movie.Title,
			Movie:  movie,
			Form:   map[string]string{"rating": form.Rating, "review": form.Review},
			Errors: verr.Fields(),
		})
		return
	}

	if err := h.repo.UpdateReview(r.Context(), movie.ID, form.RatingValue(), form.Review); err != nil {
		h.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Delete removes the movie and redirects to the list.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("deleted movie", "id", id)
	http.Redirect(w, r, "/", http.StatusFound)
}

type healthResponse struct {
	Status string `json:"status"`
	Movies int    `json:"movies"`
}

// Health reports the store as reachable along with its row count.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, resp := http.StatusOK, healthResponse{Status: "ok"}

	n, err := h.repo.Count(r.Context())
	if err != nil {
		h.logger.Error("health check failed", "error", err)
		status, resp = http.StatusServiceUnavailable, healthResponse{Status: "unavailable"}
	} else {
		resp.Movies = n
	}

	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// NotFound renders the 404 page for unmatched paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.handleError(w, r, fmt.Errorf("%w: %s", shared.ErrNotFound, r.URL.Path))
}

// lookup resolves the id query parameter to a stored movie.
func (h *Handler) lookup(r *http.Request) (*models.Movie, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}
	return h.repo.Get(r.Context(), id)
}

// parseID reads the id query parameter. An id that cannot name a row is reported as not found.
func parseID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie id %q", shared.ErrNotFound, raw)
	}
	return id, nil
}

// handleError maps err onto a status code and renders the error page.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, shared.ErrNotFound):
		status, message = http.StatusNotFound, "The requested movie could not be found."
	case errors.Is(err, shared.ErrInvalidInput):
		status, message = http.StatusBadRequest, "The request was missing or had an invalid parameter."
	default:
		status, message = http.StatusInternalServerError, "Something went wrong. Please try again."
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", server.RequestIDFromContext(r.Context()),
			"error", err,
		)
	}

	h.render(w, r, status, "error.html", &pageData{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}

// render executes a page template, falling back to a plain-text 500 if it fails.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	data.CSRFToken = server.CSRFTokenFromContext(r.Context())

	tmpl, ok := h.templates[page]
	if !ok {
		h.logger.Error("unknown template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	buf, err := execute(tmpl, data)
	if err != nil {
		h.logger.Error("failed to render template", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
