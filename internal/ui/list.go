package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/reel/internal/models"
)

var _ list.Item = movieItem{}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie *models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	rank := "-"
	if i.movie.Ranking != nil {
		rank = strconv.Itoa(*i.movie.Ranking)
	}
	if i.movie.Year != nil {
		return fmt.Sprintf("%s. %s (%d)", rank, i.movie.Title, *i.movie.Year)
	}
	return fmt.Sprintf("%s. %s", rank, i.movie.Title)
}
func (i movieItem) Description() string {
	desc := "unrated"
	if i.movie.Rating != nil {
		desc = fmt.Sprintf("%s/10", strconv.FormatFloat(*i.movie.Rating, 'f', -1, 64))
	}
	if i.movie.Review != nil {
		desc = fmt.Sprintf("%s • %s", desc, *i.movie.Review)
	}
	return desc
}
