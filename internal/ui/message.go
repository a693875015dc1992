package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reel/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgMovieDeleted
)

type moviesLoaded struct {
	movies []*models.Movie
	err    error
}

type movieDeleted struct {
	movie *models.Movie
	err   error
}

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(movies []*models.Movie, err error) Msg {
	return Msg{kind: MsgMoviesLoaded, data: moviesLoaded{movies, err}}
}

// movieDeletedMsg is the constructor for [MsgMovieDeleted]
func movieDeletedMsg(movie *models.Movie, err error) Msg {
	return Msg{kind: MsgMovieDeleted, data: movieDeleted{movie, err}}
}
