package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
)

// userPath builds /users/{username}[/suffix...] for the session's user.
func (c *Client) userPath(parts ...string) (string, error) {
	username := c.session.Username()
	if username == "" {
		return "", fmt.Errorf("%w: log in first", shared.ErrNotAuthenticated)
	}
	p := "/users/" + url.PathEscape(username)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p, nil
}

// Register creates a new account (POST /users).
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var user models.User
	if err := c.do(ctx, http.MethodPost, "/users", false, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates (POST /login) and begins the session with the returned token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", false, req, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("%w: no token in login response", shared.ErrAuthFailed)
	}

	username := resp.User.Username
	if username == "" {
		username = req.Username
	}

	if err := c.session.Begin(ctx, username, resp.Token); err != nil {
		return nil, err
	}

	c.logger.Info("logged in", "user", username)
	return &resp, nil
}

// Logout ends the session. It never contacts the API.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.End(ctx, session.EventLogout)
}

// GetMovies returns the full catalog (GET /movies).
func (c *Client) GetMovies(ctx context.Context) ([]models.Movie, error) {
	movies := []models.Movie{}
	if err := c.do(ctx, http.MethodGet, "/movies", true, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetMovie returns one movie by title (GET /movies/{title}).
func (c *Client) GetMovie(ctx context.Context, title string) (*models.Movie, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	var movie models.Movie
	if err := c.do(ctx, http.MethodGet, "/movies/"+url.PathEscape(title), true, nil, &movie); err != nil {
		return nil, notFound(err, shared.ErrMovieNotFound)
	}
	if movie.ID == "" && movie.Title == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, title)
	}
	return &movie, nil
}

// GetDirector returns a director by name (GET /movies/directors/{name}).
func (c *Client) GetDirector(ctx context.Context, name string) (*models.Director, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: director name", shared.ErrMissingArgument)
	}

	var director models.Director
	if err := c.do(ctx, http.MethodGet, "/movies/directors/"+url.PathEscape(name), true, nil, &director); err != nil {
		return nil, err
	}
	return &director, nil
}

// GetGenre returns a genre by name (GET /movies/genre/{name}).
func (c *Client) GetGenre(ctx context.Context, name string) (*models.Genre, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: genre name", shared.ErrMissingArgument)
	}

	var genre models.Genre
	if err := c.do(ctx, http.MethodGet, "/movies/genre/"+url.PathEscape(name), true, nil, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetUser returns the session user's record (GET /users/{username}).
func (c *Client) GetUser(ctx context.Context) (*models.User, error) {
	p, err := c.userPath()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodGet, p, true, nil, &user); err != nil {
		return nil, notFound(err, shared.ErrUserNotFound)
	}
	if user.Favorites == nil {
		user.Favorites = []string{}
	}
	return &user, nil
}

// GetFavorites returns the session user's favorite movie IDs, in API order.
func (c *Client) GetFavorites(ctx context.Context) ([]string, error) {
	user, err := c.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	return user.Favorites, nil
}

// AddFavorite adds movieID to the user's favorites (POST /users/{username}/movies/{movieId}).
func (c *Client) AddFavorite(ctx context.Context, movieID string) (*models.User, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie ID", shared.ErrMissingArgument)
	}

	p, err := c.userPath("movies", movieID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodPost, p, true, models.FavoriteRequest{Favorites: movieID}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RemoveFavorite removes movieID from the user's favorites (DELETE /users/{username}/movies/{movieId}).
func (c *Client) RemoveFavorite(ctx context.Context, movieID string) (*models.User, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie ID", shared.ErrMissingArgument)
	}

	p, err := c.userPath("movies", movieID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodDelete, p, true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser edits the user's profile (PUT /users/{username}).
//
// When the username changes, the session follows the new name.
func (c *Client) UpdateUser(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	p, err := c.userPath()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodPut, p, true, req, &user); err != nil {
		return nil, err
	}

	if user.Username != "" && user.Username != c.session.Username() {
		if err := c.session.Rename(ctx, user.Username); err != nil {
			return &user, err
		}
	}
	return &user, nil
}

// DeleteUser deletes the account (DELETE /users/{username}) and ends the session.
//
// The session is cleared even when the request fails; the request error is still returned.
func (c *Client) DeleteUser(ctx context.Context) (*models.MessageResponse, error) {
	p, err := c.userPath()
	if err != nil {
		return nil, err
	}

	var msg models.MessageResponse
	reqErr := c.do(ctx, http.MethodDelete, p, true, nil, &msg)
	endErr := c.session.End(ctx, session.EventDelete)

	if err := errors.Join(reqErr, endErr); err != nil {
		return nil, err
	}
	return &msg, nil
}

// notFound adds sentinel to 404 API errors.
func notFound(err error, sentinel error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}
