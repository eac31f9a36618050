package services

import (
	"context"

	"github.com/desertthunder/myflix/internal/models"
)

// MovieService reads the movie catalog.
type MovieService interface {
	GetMovies(ctx context.Context) ([]models.Movie, error)
	GetMovie(ctx context.Context, title string) (*models.Movie, error)
	GetDirector(ctx context.Context, name string) (*models.Director, error)
	GetGenre(ctx context.Context, name string) (*models.Genre, error)
}

// AccountService manages the authenticated user's account and favorites.
type AccountService interface {
	GetUser(ctx context.Context) (*models.User, error)
	GetFavorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, movieID string) (*models.User, error)
	RemoveFavorite(ctx context.Context, movieID string) (*models.User, error)
	UpdateUser(ctx context.Context, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context) (*models.MessageResponse, error)
}

// Service is the full myFlix API surface.
type Service interface {
	MovieService
	AccountService

	// Register creates an account. It does not log in.
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)

	// Login authenticates and begins the session.
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)

	// Logout ends the session without contacting the API.
	Logout(ctx context.Context) error
}
