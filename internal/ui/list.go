package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/tasks"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = favoriteItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return "★ " + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	return fmt.Sprintf("%s • %s", i.movie.Genre.Name, i.movie.Director.Name)
}

// favoriteItem is one reconciled favorite. movie is nil when the ID has no catalog entry.
type favoriteItem struct {
	id    string
	movie *models.Movie
}

func (i favoriteItem) FilterValue() string { return i.Title() }
func (i favoriteItem) Title() string {
	if i.movie == nil {
		return "unknown movie " + i.id
	}
	return i.movie.Title
}
func (i favoriteItem) Description() string {
	if i.movie == nil {
		return "not in the catalog"
	}
	return fmt.Sprintf("%s • %s", i.movie.Genre.Name, i.movie.Director.Name)
}

func movieItems(view *tasks.MovieListView) []list.Item {
	items := make([]list.Item, len(view.Movies))
	for i, m := range view.Movies {
		items[i] = movieItem{movie: m, favorite: view.IsFavorite(m.ID)}
	}
	return items
}

func favoriteItems(view *tasks.FavoritesView) []list.Item {
	items := make([]list.Item, len(view.Slots))
	for i, slot := range view.Slots {
		items[i] = favoriteItem{id: view.Favorites[i], movie: slot}
	}
	return items
}
