package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	movies    key.Binding
	favorites key.Binding
	profile   key.Binding
	logout    key.Binding
	genre     key.Binding
	director  key.Binding
	synopsis  key.Binding
	favorite  key.Binding
	remove    key.Binding
	delete    key.Binding
	back      key.Binding
	yes       key.Binding
	no        key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		movies:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "movies")),
		favorites: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "favorites")),
		profile:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "profile")),
		logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		genre:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		director:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "director")),
		synopsis:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "synopsis")),
		favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle favorite")),
		remove:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "remove")),
		delete:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete account")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.movies, k.favorites, k.profile, k.logout, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.movies, k.favorites, k.profile, k.logout},
		{k.genre, k.director, k.synopsis, k.favorite},
		{k.delete, k.yes, k.no, k.quit},
	}
}
