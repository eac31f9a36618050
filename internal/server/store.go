package server

import (
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Store holds the catalog and accounts in memory. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	movies []models.Movie
	users  map[string]*models.User // keyed by username; Password holds the bcrypt hash
	cost   int
}

// NewStore creates an empty store. A non-positive cost uses bcrypt.DefaultCost.
func NewStore(cost int) *Store {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Store{users: map[string]*models.User{}, cost: cost}
}

// AddMovie appends m to the catalog, assigning an ID when it has none.
func (s *Store) AddMovie(m models.Movie) models.Movie {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies = append(s.movies, m)
	return m
}

// Movies returns a copy of the catalog.
func (s *Store) Movies() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.movies)
}

// MovieByTitle finds a movie by exact title.
func (s *Store) MovieByTitle(title string) (models.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.Title == title {
			return m, true
		}
	}
	return models.Movie{}, false
}

// Genre returns the genre of the first movie with that genre name.
func (s *Store) Genre(name string) (models.Genre, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.Genre.Name == name {
			return m.Genre, true
		}
	}
	return models.Genre{}, false
}

// Director returns the director of the first movie directed by name.
func (s *Store) Director(name string) (models.Director, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.Director.Name == name {
			return m.Director, true
		}
	}
	return models.Director{}, false
}

func (s *Store) hasMovie(id string) bool {
	for _, m := range s.movies {
		if m.ID == id {
			return true
		}
	}
	return false
}

// CreateUser registers a new account with a hashed password.
func (s *Store) CreateUser(req models.RegisterRequest) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[req.Username]; ok {
		return models.User{}, fmt.Errorf("%w: %s already exists", shared.ErrInvalidInput, req.Username)
	}

	u := &models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Password:  string(hash),
		Email:     req.Email,
		Birthday:  req.Birthday,
		Favorites: []string{},
	}
	s.users[u.Username] = u
	return u.Public(), nil
}

// Authenticate checks credentials and returns the user.
func (s *Store) Authenticate(username, password string) (models.User, error) {
	s.mu.RLock()
	u, ok := s.users[username]
	var hash string
	if ok {
		hash = u.Password
	}
	s.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, shared.ErrAuthFailed
	}
	return s.User(username)
}

// User returns the account without its password hash.
func (s *Store) User(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return models.User{}, fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	out := u.Public()
	out.Favorites = slices.Clone(u.Favorites)
	return out, nil
}

// UpdateUser applies the non-empty fields of req. Renaming onto an existing username fails.
func (s *Store) UpdateUser(username string, req models.UpdateUserRequest) (models.User, error) {
	var hash []byte
	if req.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(req.Password), s.cost); err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	s.mu.Lock()
	u, ok := s.users[username]
	if !ok {
		s.mu.Unlock()
		return models.User{}, fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	if req.Username != "" && req.Username != username {
		if _, taken := s.users[req.Username]; taken {
			s.mu.Unlock()
			return models.User{}, fmt.Errorf("%w: %s already exists", shared.ErrInvalidInput, req.Username)
		}
		delete(s.users, username)
		u.Username = req.Username
		s.users[u.Username] = u
	}
	if hash != nil {
		u.Password = string(hash)
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Birthday != "" {
		u.Birthday = req.Birthday
	}
	name := u.Username
	s.mu.Unlock()

	return s.User(name)
}

// DeleteUser removes the account.
func (s *Store) DeleteUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	delete(s.users, username)
	return nil
}

// AddFavorite adds movieID to the user's favorites once.
func (s *Store) AddFavorite(username, movieID string) (models.User, error) {
	s.mu.Lock()
	u, ok := s.users[username]
	if !ok {
		s.mu.Unlock()
		return models.User{}, fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	if !s.hasMovie(movieID) {
		s.mu.Unlock()
		return models.User{}, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, movieID)
	}
	if !u.HasFavorite(movieID) {
		u.Favorites = append(u.Favorites, movieID)
	}
	s.mu.Unlock()
	return s.User(username)
}

// RemoveFavorite removes every occurrence of movieID from the user's favorites.
func (s *Store) RemoveFavorite(username, movieID string) (models.User, error) {
	s.mu.Lock()
	u, ok := s.users[username]
	if !ok {
		s.mu.Unlock()
		return models.User{}, fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	u.Favorites = slices.DeleteFunc(u.Favorites, func(id string) bool { return id == movieID })
	s.mu.Unlock()
	return s.User(username)
}

// Seed loads a small sample catalog with stable IDs.
func (s *Store) Seed() {
	scott := models.Director{Name: "Ridley Scott", Bio: "English film director and producer known for science fiction and historical epics.", Birthday: "1937-11-30"}
	mann := models.Director{Name: "Michael Mann", Bio: "American director known for stylized crime dramas.", Birthday: "1943-02-05"}
	jeunet := models.Director{Name: "Jean-Pierre Jeunet", Bio: "French director known for whimsical visual storytelling.", Birthday: "1953-09-03"}
	villeneuve := models.Director{Name: "Denis Villeneuve", Bio: "Canadian filmmaker known for cerebral science fiction.", Birthday: "1967-10-03"}

	scifi := models.Genre{Name: "Science Fiction", Description: "Speculative stories built on imagined science and technology."}
	crime := models.Genre{Name: "Crime", Description: "Stories centered on criminals, detectives and the law."}
	comedy := models.Genre{Name: "Comedy", Description: "Stories written to amuse."}

	for _, m := range []models.Movie{
		{ID: "5f1c3a7e2b1d4c0001a1b001", Title: "Alien", Description: "The crew of a commercial spacecraft encounters a deadly lifeform.", Genre: scifi, Director: scott, Featured: true},
		{ID: "5f1c3a7e2b1d4c0001a1b002", Title: "Blade Runner", Description: "A blade runner must pursue and terminate four replicants.", Genre: scifi, Director: scott},
		{ID: "5f1c3a7e2b1d4c0001a1b003", Title: "Heat", Description: "A group of professional bank robbers is tracked by a detective.", Genre: crime, Director: mann, Featured: true},
		{ID: "5f1c3a7e2b1d4c0001a1b004", Title: "Collateral", Description: "A cab driver finds himself the hostage of a hitman.", Genre: crime, Director: mann},
		{ID: "5f1c3a7e2b1d4c0001a1b005", Title: "Amelie", Description: "A shy waitress decides to change the lives of those around her.", Genre: comedy, Director: jeunet},
		{ID: "5f1c3a7e2b1d4c0001a1b006", Title: "Arrival", Description: "A linguist works to communicate with alien visitors.", Genre: scifi, Director: villeneuve},
	} {
		s.AddMovie(m)
	}
}
