package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MovieListView ViewState = iota
	FavoritesListView
	ProfileView
	LandingView
)

func (v ViewState) String() string {
	switch v {
	case MovieListView:
		return "Movies"
	case FavoritesListView:
		return "Favorites"
	case ProfileView:
		return "Profile"
	default:
		return "myFlix"
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	srv           services.Service
	engine        *tasks.FavoritesEngine
	width         int
	height        int
	gen           int
	loading       bool
	movieList     list.Model
	favoriteList  list.Model
	movies        *tasks.MovieListView
	favorites     *tasks.FavoritesView
	profile       *models.User
	dialog        Dialog
	confirmDelete bool
	status        string
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, srv services.Service, engine *tasks.FavoritesEngine) *Model {
	if engine == nil {
		engine = tasks.NewFavoritesEngine(srv)
	}
	return &Model{
		ctx:          ctx,
		view:         MovieListView,
		srv:          srv,
		engine:       engine,
		movieList:    newList("Movies"),
		favoriteList: newList("Favorites"),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// ViewState returns the active view.
func (m *Model) ViewState() ViewState {
	return m.view
}

// Err returns the last error shown to the user.
func (m *Model) Err() error {
	return m.err
}

// Init initializes the TUI by loading the movie list.
func (m *Model) Init() tea.Cmd {
	return m.switchTo(MovieListView)
}

// switchTo moves to view and starts its fetch under a new generation.
func (m *Model) switchTo(view ViewState) tea.Cmd {
	m.view = view
	m.dialog = nil
	m.confirmDelete = false
	m.err = nil
	m.gen++
	m.loading = true

	gen, ctx, engine, srv := m.gen, m.ctx, m.engine, m.srv
	switch view {
	case MovieListView:
		return func() tea.Msg {
			v, err := engine.LoadMovies(ctx)
			return moviesLoadedMsg(gen, v, err)
		}
	case FavoritesListView:
		return func() tea.Msg {
			v, err := engine.LoadFavorites(ctx)
			return favoritesLoadedMsg(gen, v, err)
		}
	case ProfileView:
		return func() tea.Msg {
			u, err := srv.GetUser(ctx)
			return profileLoadedMsg(gen, u, err)
		}
	default:
		m.loading = false
		return nil
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(msg.Width-4, msg.Height-8)
		m.favoriteList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgAccountDeleted:
		m.confirmDelete = false
		m.view = LandingView
		if msg.err != nil {
			m.err = msg.err
			m.status = "Your session has been cleared."
		} else {
			m.status = "Your account has been deleted."
		}
		return m, tea.Quit

	case MsgLoggedOut:
		m.view = LandingView
		m.err = msg.err
		m.status = "Logged out."
		return m, tea.Quit
	}

	if msg.gen != m.gen {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}

	switch msg.kind {
	case MsgMoviesLoaded:
		m.movies = msg.data.(*tasks.MovieListView)
		cmd := m.movieList.SetItems(movieItems(m.movies))
		return m, cmd
	case MsgFavoritesLoaded:
		m.favorites = msg.data.(*tasks.FavoritesView)
		cmd := m.favoriteList.SetItems(favoriteItems(m.favorites))
		return m, cmd
	case MsgProfileLoaded:
		m.profile = msg.data.(*models.User)
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.view == LandingView {
		return m, tea.Quit
	}

	if m.dialog != nil {
		if key.Matches(msg, m.keys.back, m.keys.quit) || msg.String() == "enter" {
			m.dialog = nil
		}
		return m, nil
	}

	if m.confirmDelete {
		switch {
		case key.Matches(msg, m.keys.yes):
			return m, m.deleteAccount()
		case key.Matches(msg, m.keys.no):
			m.confirmDelete = false
		}
		return m, nil
	}

	if m.filtering() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.movies):
		return m, m.switchTo(MovieListView)
	case key.Matches(msg, m.keys.favorites):
		return m, m.switchTo(FavoritesListView)
	case key.Matches(msg, m.keys.profile):
		return m, m.switchTo(ProfileView)
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	}

	switch m.view {
	case MovieListView, FavoritesListView:
		return m.handleListKeys(msg)
	case ProfileView:
		if key.Matches(msg, m.keys.delete) && m.profile != nil {
			m.confirmDelete = true
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	movie := m.selectedMovie()

	switch {
	case key.Matches(msg, m.keys.genre):
		if movie != nil {
			m.dialog = NewGenreDialog(movie.Genre)
		}
		return m, nil
	case key.Matches(msg, m.keys.director):
		if movie != nil {
			m.dialog = NewDirectorDialog(movie.Director)
		}
		return m, nil
	case key.Matches(msg, m.keys.synopsis):
		if movie != nil {
			m.dialog = NewSynopsisDialog(*movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite()
	}

	return m.updateLists(msg)
}

func (m *Model) filtering() bool {
	switch m.view {
	case MovieListView:
		return m.movieList.FilterState() == list.Filtering
	case FavoritesListView:
		return m.favoriteList.FilterState() == list.Filtering
	}
	return false
}

// selectedMovie returns the highlighted movie, or nil for an empty list or an unknown favorite.
func (m *Model) selectedMovie() *models.Movie {
	switch m.view {
	case MovieListView:
		if it, ok := m.movieList.SelectedItem().(movieItem); ok {
			return &it.movie
		}
	case FavoritesListView:
		if it, ok := m.favoriteList.SelectedItem().(favoriteItem); ok {
			return it.movie
		}
	}
	return nil
}

// toggleFavorite adds or removes the selected movie, then refetches the current view.
func (m *Model) toggleFavorite() tea.Cmd {
	m.gen++
	m.loading = true
	gen, ctx, engine := m.gen, m.ctx, m.engine

	switch m.view {
	case MovieListView:
		it, ok := m.movieList.SelectedItem().(movieItem)
		if !ok {
			m.loading = false
			return nil
		}
		return func() tea.Msg {
			v, err := engine.Toggle(ctx, it.movie.ID)
			return moviesLoadedMsg(gen, v, err)
		}
	case FavoritesListView:
		it, ok := m.favoriteList.SelectedItem().(favoriteItem)
		if !ok {
			m.loading = false
			return nil
		}
		return func() tea.Msg {
			v, err := engine.Remove(ctx, it.id)
			return favoritesLoadedMsg(gen, v, err)
		}
	}
	m.loading = false
	return nil
}

func (m *Model) deleteAccount() tea.Cmd {
	ctx, srv := m.ctx, m.srv
	return func() tea.Msg {
		resp, err := srv.DeleteUser(ctx)
		return accountDeletedMsg(resp, err)
	}
}

func (m *Model) logout() tea.Cmd {
	m.gen++
	ctx, srv := m.ctx, m.srv
	return func() tea.Msg {
		return loggedOutMsg(srv.Logout(ctx))
	}
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MovieListView:
		m.movieList, cmd = m.movieList.Update(msg)
	case FavoritesListView:
		m.favoriteList, cmd = m.favoriteList.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.view == LandingView {
		return m.renderLanding()
	}

	var body string
	switch {
	case m.dialog != nil:
		body = RenderDialog(m.dialog)
		if m.width > 0 {
			body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
		}
	case m.confirmDelete:
		body = m.renderConfirm()
	case m.err != nil:
		body = styles.err.Render(fmt.Sprintf("Error: %s", services.UserMessage(m.err)))
	case m.loading && m.view == ProfileView:
		body = "Loading..."
	default:
		body = m.renderView()
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", m.renderNav(), body, m.renderHelp())
}

func (m *Model) renderNav() string {
	tabs := []string{}
	for i, v := range []ViewState{MovieListView, FavoritesListView, ProfileView} {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.view {
			tabs = append(tabs, styles.active.Render(label))
		} else {
			tabs = append(tabs, styles.help.Render(label))
		}
	}
	tabs = append(tabs, styles.help.Render("L Logout"))
	return strings.Join(tabs, "  ")
}

func (m *Model) renderView() string {
	switch m.view {
	case MovieListView:
		return m.movieList.View()
	case FavoritesListView:
		if m.favorites != nil && len(m.favorites.Slots) == 0 && !m.loading {
			return styles.warn.Render("No favorites yet. Press 1, then f on a movie to add one.")
		}
		return m.favoriteList.View()
	case ProfileView:
		return m.renderProfile()
	}
	return ""
}

func (m *Model) renderProfile() string {
	if m.profile == nil {
		return ""
	}
	u := m.profile
	birthday := "-"
	if u.Birthday != "" {
		birthday = shared.FormatDate(u.Birthday)
	}

	lines := []string{
		styles.title.Render(u.Username),
		fmt.Sprintf("Email:     %s", u.Email),
		fmt.Sprintf("Birthday:  %s", birthday),
		fmt.Sprintf("Favorites: %d", len(u.Favorites)),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirm() string {
	title := styles.err.Render("Delete your account?")
	return fmt.Sprintf("%s\n\nThis cannot be undone.\n\n%s", title, m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
}

func (m *Model) renderLanding() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("myFlix"))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(styles.err.Render(services.UserMessage(m.err)))
		b.WriteString("\n")
	}
	b.WriteString(styles.help.Render("Run `myflix auth login` to sign in again."))
	return b.String()
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch {
	case m.dialog != nil:
		keys = []key.Binding{m.keys.back}
	case m.view == MovieListView:
		keys = []key.Binding{m.keys.genre, m.keys.director, m.keys.synopsis, m.keys.favorite}
	case m.view == FavoritesListView:
		keys = []key.Binding{m.keys.genre, m.keys.director, m.keys.synopsis, m.keys.remove}
	case m.view == ProfileView:
		keys = []key.Binding{m.keys.delete}
	}
	keys = append(keys, m.keys.ShortHelp()...)
	return m.help.ShortHelpView(keys)
}
