package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
//
// gen is the fetch generation the message answers; results from older generations are dropped.
type Msg struct {
	kind MsgKind
	gen  int
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgFavoritesLoaded
	MsgProfileLoaded
	MsgAccountDeleted
	MsgLoggedOut
)

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(gen int, view *tasks.MovieListView, err error) Msg {
	return Msg{kind: MsgMoviesLoaded, gen: gen, data: view, err: err}
}

// favoritesLoadedMsg is the constructor for [MsgFavoritesLoaded]
func favoritesLoadedMsg(gen int, view *tasks.FavoritesView, err error) Msg {
	return Msg{kind: MsgFavoritesLoaded, gen: gen, data: view, err: err}
}

// profileLoadedMsg is the constructor for [MsgProfileLoaded]
func profileLoadedMsg(gen int, user *models.User, err error) Msg {
	return Msg{kind: MsgProfileLoaded, gen: gen, data: user, err: err}
}

// accountDeletedMsg is the constructor for [MsgAccountDeleted]
func accountDeletedMsg(resp *models.MessageResponse, err error) Msg {
	return Msg{kind: MsgAccountDeleted, data: resp, err: err}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, err: err}
}
