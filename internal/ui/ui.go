package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reel/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	ConfirmView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	repo     models.MovieRepository
	width    int
	height   int
	list     list.Model
	movies   []*models.Movie
	selected *models.Movie
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, repo models.MovieRepository) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "My Top Movies"

	return &Model{
		ctx:  ctx,
		view: ListView,
		repo: repo,
		list: l,
		help: help.New(),
		keys: newKeyMap(),
	}
}

// Init initializes the TUI by loading the movie list.
func (m *Model) Init() tea.Cmd {
	return m.loadMovies()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMoviesLoaded:
		data := msg.data.(moviesLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.movies = data.movies
		items := make([]list.Item, len(data.movies))
		for i, movie := range data.movies {
			items[i] = movieItem{movie: movie}
		}
		return m, m.list.SetItems(items)

	case MsgMovieDeleted:
		data := msg.data.(movieDeleted)
		m.view = ListView
		m.selected = nil
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Delete failed: %v", data.err))
			return m, nil
		}
		m.status = styles.ok.Render(fmt.Sprintf("✓ Deleted %s", data.movie.Title))
		return m, m.loadMovies()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.status = ""
		return m, m.loadMovies()
	case key.Matches(msg, m.keys.enter):
		if movie := m.selectedMovie(); movie != nil {
			m.selected = movie
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if movie := m.selectedMovie(); movie != nil {
			m.selected = movie
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.selected = nil
	case key.Matches(msg, m.keys.delete):
		m.view = ConfirmView
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.deleteMovie(m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = ListView
		m.selected = nil
	}
	return m, nil
}

func (m *Model) selectedMovie() *models.Movie {
	if item, ok := m.list.SelectedItem().(movieItem); ok {
		return item.movie
	}
	return nil
}

func (m *Model) loadMovies() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.repo.List(m.ctx)
		return moviesLoadedMsg(movies, err)
	}
}

func (m *Model) deleteMovie(movie *models.Movie) tea.Cmd {
	return func() tea.Msg {
		if movie == nil {
			return movieDeletedMsg(nil, fmt.Errorf("no movie selected"))
		}
		return movieDeletedMsg(movie, m.repo.Delete(m.ctx, movie.ID))
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.delete, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.status != "" {
		return fmt.Sprintf("%s\n%s\n\n%s", m.list.View(), m.status, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
}

func (m *Model) renderDetail() string {
	movie := m.selected
	if movie == nil {
		return ""
	}

	title := styles.title.Render(movieItem{movie: movie}.Title())

	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", styles.help.Render(label+":"), value)
	}

	if movie.Rating != nil {
		field("Rating", styles.rating.Render(strconv.FormatFloat(*movie.Rating, 'f', -1, 64)+"/10"))
	} else {
		field("Rating", styles.warn.Render("unrated"))
	}
	field("Review", models.Deref(movie.Review))
	field("Description", models.Deref(movie.Description))
	field("Poster", models.Deref(movie.ImageURL))

	helpKeys := []key.Binding{m.keys.back, m.keys.delete, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}

func (m *Model) renderConfirm() string {
	if m.selected == nil {
		return ""
	}

	title := styles.title.Render(fmt.Sprintf("Delete '%s'?", m.selected.Title))
	info := styles.warn.Render("This permanently removes the movie from your list.")

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
