package testing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/desertthunder/myflix/internal/models"
)

// ErrMockNotFound is returned by [MockService] lookups that miss.
var ErrMockNotFound = errors.New("mock: not found")

// MockService is an in-memory test double satisfying services.Service.
//
// Errors set in the Err* fields are returned by the matching methods.
type MockService struct {
	mu sync.Mutex

	Movies []models.Movie
	User   models.User
	Token  string

	LoggedIn bool
	Deleted  bool
	Calls    []string

	ErrMovies   error
	ErrUser     error
	ErrAdd      error
	ErrRemove   error
	ErrUpdate   error
	ErrDelete   error
	ErrLogin    error
	ErrRegister error
}

// NewMockService creates a mock with a catalog of movies and a logged-in user with the given favorites.
func NewMockService(movies []models.Movie, favorites ...string) *MockService {
	return &MockService{
		Movies:   movies,
		User:     models.User{ID: "u1", Username: "testuser", Email: "test@example.com", Birthday: "1990-04-12", Favorites: append([]string{}, favorites...)},
		Token:    "mock-token",
		LoggedIn: true,
	}
}

// SampleMovies returns n movies with IDs m1..mn.
func SampleMovies() []models.Movie {
	return []models.Movie{
		{ID: "m1", Title: "Alien", Description: "In space no one can hear you scream.", Genre: models.Genre{Name: "Horror", Description: "Scary."}, Director: models.Director{Name: "Ridley Scott", Bio: "English filmmaker.", Birthday: "1937-11-30"}},
		{ID: "m2", Title: "Heat", Description: "A cop and a thief.", Genre: models.Genre{Name: "Thriller", Description: "Tense."}, Director: models.Director{Name: "Michael Mann", Bio: "American filmmaker.", Birthday: "1943-02-05"}},
		{ID: "m3", Title: "Amelie", Description: "A shy waitress in Paris.", Genre: models.Genre{Name: "Comedy", Description: "Funny."}, Director: models.Director{Name: "Jean-Pierre Jeunet", Bio: "French filmmaker.", Birthday: "1953-09-03"}},
		{ID: "m10", Title: "Arrival", Description: "Linguist meets aliens.", Genre: models.Genre{Name: "Sci-Fi", Description: "Speculative."}, Director: models.Director{Name: "Denis Villeneuve", Bio: "Canadian filmmaker.", Birthday: "1967-10-03"}},
	}
}

func (m *MockService) call(name string) {
	m.Calls = append(m.Calls, name)
}

// CallCount returns how many times name was called.
func (m *MockService) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *MockService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("Register")
	if m.ErrRegister != nil {
		return nil, m.ErrRegister
	}
	return &models.User{Username: req.Username, Email: req.Email, Birthday: req.Birthday, Favorites: []string{}}, nil
}

func (m *MockService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("Login")
	if m.ErrLogin != nil {
		return nil, m.ErrLogin
	}
	m.LoggedIn = true
	return &models.LoginResponse{User: m.User.Public(), Token: m.Token}, nil
}

func (m *MockService) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("Logout")
	m.LoggedIn = false
	return nil
}

func (m *MockService) GetMovies(ctx context.Context) ([]models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("GetMovies")
	if m.ErrMovies != nil {
		return nil, m.ErrMovies
	}
	return append([]models.Movie{}, m.Movies...), nil
}

func (m *MockService) GetMovie(ctx context.Context, title string) (*models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("GetMovie")
	if m.ErrMovies != nil {
		return nil, m.ErrMovies
	}
	for _, mv := range m.Movies {
		if strings.EqualFold(mv.Title, title) {
			movie := mv
			return &movie, nil
		}
	}
	return nil, ErrMockNotFound
}

func (m *MockService) GetDirector(ctx context.Context, name string) (*models.Director, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("GetDirector")
	for _, mv := range m.Movies {
		if strings.EqualFold(mv.Director.Name, name) {
			d := mv.Director
			return &d, nil
		}
	}
	return nil, ErrMockNotFound
}

func (m *MockService) GetGenre(ctx context.Context, name string) (*models.Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("GetGenre")
	for _, mv := range m.Movies {
		if strings.EqualFold(mv.Genre.Name, name) {
			g := mv.Genre
			return &g, nil
		}
	}
	return nil, ErrMockNotFound
}

func (m *MockService) GetUser(ctx context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("GetUser")
	if m.ErrUser != nil {
		return nil, m.ErrUser
	}
	u := m.User
	u.Favorites = append([]string{}, m.User.Favorites...)
	return &u, nil
}

func (m *MockService) GetFavorites(ctx context.Context) ([]string, error) {
	u, err := m.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	return u.Favorites, nil
}

func (m *MockService) AddFavorite(ctx context.Context, movieID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("AddFavorite")
	if m.ErrAdd != nil {
		return nil, m.ErrAdd
	}
	if !m.User.HasFavorite(movieID) {
		m.User.Favorites = append(m.User.Favorites, movieID)
	}
	u := m.User
	return &u, nil
}

func (m *MockService) RemoveFavorite(ctx context.Context, movieID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("RemoveFavorite")
	if m.ErrRemove != nil {
		return nil, m.ErrRemove
	}
	kept := []string{}
	for _, id := range m.User.Favorites {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	m.User.Favorites = kept
	u := m.User
	return &u, nil
}

func (m *MockService) UpdateUser(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("UpdateUser")
	if m.ErrUpdate != nil {
		return nil, m.ErrUpdate
	}
	if req.Username != "" {
		m.User.Username = req.Username
	}
	if req.Email != "" {
		m.User.Email = req.Email
	}
	if req.Birthday != "" {
		m.User.Birthday = req.Birthday
	}
	u := m.User
	return &u, nil
}

func (m *MockService) DeleteUser(ctx context.Context) (*models.MessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call("DeleteUser")
	m.LoggedIn = false
	if m.ErrDelete != nil {
		return nil, m.ErrDelete
	}
	m.Deleted = true
	return &models.MessageResponse{Message: m.User.Username + " was deleted."}, nil
}
