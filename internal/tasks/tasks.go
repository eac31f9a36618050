package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
	"golang.org/x/sync/errgroup"
)

// MovieListView is the catalog with the user's favorite IDs.
type MovieListView struct {
	Movies    []models.Movie
	Favorites []string
}

// IsFavorite reports whether id is one of the view's favorites.
func (v *MovieListView) IsFavorite(id string) bool {
	return IsFavorite(v.Favorites, id)
}

// FavoritesView is the user's favorites reconciled against the catalog.
type FavoritesView struct {
	Favorites []string        // IDs in API order
	Slots     []*models.Movie // one per favorite; nil when the ID has no catalog entry
}

// Movies returns the matched movies in favorites order.
func (v *FavoritesView) Movies() []models.Movie {
	return Present(v.Slots)
}

// Unmatched returns favorite IDs with no catalog entry.
func (v *FavoritesView) Unmatched() []string {
	ids := []string{}
	for i, slot := range v.Slots {
		if slot == nil {
			ids = append(ids, v.Favorites[i])
		}
	}
	return ids
}

// Reconcile maps each favorite ID to its catalog movie by exact ID equality.
//
// The result has len(favorites) slots in favorites order. A favorite with no match is a nil slot.
// When the catalog holds duplicate IDs the first one wins.
func Reconcile(favorites []string, movies []models.Movie) []*models.Movie {
	index := make(map[string]*models.Movie, len(movies))
	for i := range movies {
		if _, ok := index[movies[i].ID]; !ok {
			index[movies[i].ID] = &movies[i]
		}
	}

	slots := make([]*models.Movie, len(favorites))
	for i, id := range favorites {
		slots[i] = index[id]
	}
	return slots
}

// Present drops unmatched slots.
func Present(slots []*models.Movie) []models.Movie {
	out := make([]models.Movie, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// IsFavorite reports whether id is an element of favorites.
func IsFavorite(favorites []string, id string) bool {
	return slices.Contains(favorites, id)
}

// FavoritesEngine loads and mutates the movie list and favorites views.
type FavoritesEngine struct {
	srv services.Service
}

// NewFavoritesEngine creates a new FavoritesEngine over srv.
func NewFavoritesEngine(srv services.Service) *FavoritesEngine {
	return &FavoritesEngine{srv: srv}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *FavoritesEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *FavoritesEngine) ready() error {
	if e.srv == nil {
		return fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// LoadMovies fetches the catalog and the favorite IDs concurrently. Both must succeed.
func (e *FavoritesEngine) LoadMovies(ctx context.Context) (*MovieListView, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	var movies []models.Movie
	var favorites []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = e.srv.GetMovies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		favorites, err = e.srv.GetFavorites(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &MovieListView{Movies: movies, Favorites: favorites}, nil
}

// LoadFavorites fetches the favorite IDs, then the catalog, and reconciles them.
func (e *FavoritesEngine) LoadFavorites(ctx context.Context) (*FavoritesView, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	favorites, err := e.srv.GetFavorites(ctx)
	if err != nil {
		return nil, err
	}

	movies, err := e.srv.GetMovies(ctx)
	if err != nil {
		return nil, err
	}

	return &FavoritesView{Favorites: favorites, Slots: Reconcile(favorites, movies)}, nil
}

// Add adds movieID to the favorites and reloads the movie list.
func (e *FavoritesEngine) Add(ctx context.Context, movieID string) (*MovieListView, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if _, err := e.srv.AddFavorite(ctx, movieID); err != nil {
		return nil, err
	}
	return e.LoadMovies(ctx)
}

// Remove removes movieID from the favorites and reloads the favorites view.
func (e *FavoritesEngine) Remove(ctx context.Context, movieID string) (*FavoritesView, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if _, err := e.srv.RemoveFavorite(ctx, movieID); err != nil {
		return nil, err
	}
	return e.LoadFavorites(ctx)
}

// Toggle adds movieID when it is not a favorite and removes it otherwise, then reloads the movie list.
func (e *FavoritesEngine) Toggle(ctx context.Context, movieID string) (*MovieListView, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	favorites, err := e.srv.GetFavorites(ctx)
	if err != nil {
		return nil, err
	}

	if IsFavorite(favorites, movieID) {
		_, err = e.srv.RemoveFavorite(ctx, movieID)
	} else {
		_, err = e.srv.AddFavorite(ctx, movieID)
	}
	if err != nil {
		return nil, err
	}
	return e.LoadMovies(ctx)
}

// TitleResolution maps requested titles to catalog IDs.
type TitleResolution struct {
	IDs     []string // resolved IDs in request order, duplicates removed
	Missing []string // titles with no catalog entry
}

// ResolveTitles matches titles against the catalog, ignoring case and surrounding whitespace.
//
// Entries that already equal a catalog ID are accepted as-is.
func (e *FavoritesEngine) ResolveTitles(ctx context.Context, progress chan<- ProgressUpdate, titles []string) (*TitleResolution, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchingMoviesUpdate())
	movies, err := e.srv.GetMovies(ctx)
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string]string, len(movies))
	byID := make(map[string]bool, len(movies))
	for _, m := range movies {
		key := shared.NormalizeTitle(m.Title)
		if _, ok := byTitle[key]; !ok {
			byTitle[key] = m.ID
		}
		byID[m.ID] = true
	}

	res := &TitleResolution{IDs: []string{}, Missing: []string{}}
	seen := map[string]bool{}
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}

		id, ok := byTitle[shared.NormalizeTitle(title)]
		if !ok && byID[title] {
			id, ok = title, true
		}
		if !ok {
			res.Missing = append(res.Missing, title)
			continue
		}
		if !seen[id] {
			seen[id] = true
			res.IDs = append(res.IDs, id)
		}
	}

	e.sendProgress(progress, resolvedTitlesUpdate(len(res.IDs), len(res.IDs)+len(res.Missing)))
	return res, nil
}
