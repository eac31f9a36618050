package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Genre describes a movie genre.
type Genre struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

// Director describes a movie director.
type Director struct {
	Name     string `json:"Name"`
	Bio      string `json:"Bio"`
	Birthday string `json:"Birthday,omitempty"`
	Death    string `json:"Death,omitempty"`
}

// Movie is a catalog entry.
type Movie struct {
	ID          string   `json:"_id"`
	Title       string   `json:"Title"`
	Description string   `json:"Description"`
	Genre       Genre    `json:"Genre"`
	Director    Director `json:"Director"`
	ImagePath   string   `json:"ImagePath,omitempty"`
	Featured    bool     `json:"Featured,omitempty"`
}

// User is a myFlix account.
//
// Password is write-only: it is accepted on decode for requests built from user input
// but is never set by the API and never rendered.
type User struct {
	ID        string   `json:"_id,omitempty"`
	Username  string   `json:"Username"`
	Password  string   `json:"Password,omitempty"`
	Email     string   `json:"Email"`
	Birthday  string   `json:"Birthday,omitempty"`
	Favorites []string `json:"Favorites"`
}

// Public returns a copy of u without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}

// HasFavorite reports whether movieID is in the user's favorites.
func (u User) HasFavorite(movieID string) bool {
	for _, id := range u.Favorites {
		if id == movieID {
			return true
		}
	}
	return false
}

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Email    string `json:"Email"`
	Birthday string `json:"Birthday,omitempty"`
}

// Validate checks the fields the API requires.
func (r RegisterRequest) Validate() error {
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validateBirthday(r.Birthday)
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// Validate checks that both credentials are present.
func (r LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// UpdateUserRequest is the body of PUT /users/{username}. Empty fields are omitted.
type UpdateUserRequest struct {
	Username string `json:"Username,omitempty"`
	Password string `json:"Password,omitempty"`
	Email    string `json:"Email,omitempty"`
	Birthday string `json:"Birthday,omitempty"`
}

// IsEmpty reports whether no field is set.
func (r UpdateUserRequest) IsEmpty() bool {
	return r == UpdateUserRequest{}
}

// Validate checks the fields that are set.
func (r UpdateUserRequest) Validate() error {
	if r.IsEmpty() {
		return fmt.Errorf("nothing to update")
	}
	if r.Username != "" {
		if err := validateUsername(r.Username); err != nil {
			return err
		}
	}
	if r.Email != "" {
		if err := validateEmail(r.Email); err != nil {
			return err
		}
	}
	return validateBirthday(r.Birthday)
}

// FavoriteRequest is the body of POST /users/{username}/movies/{movieId}.
type FavoriteRequest struct {
	Favorites string `json:"Favorites"`
}

// MessageResponse holds plain text or {"message": ...} bodies returned by delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// SetText stores a plain text body as the message.
func (m *MessageResponse) SetText(text string) {
	m.Message = strings.Trim(text, `"`)
}

func validateUsername(username string) error {
	if len(username) < 5 {
		return fmt.Errorf("username must be at least 5 characters")
	}
	for _, r := range username {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("username contains non alphanumeric characters")
		}
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return fmt.Errorf("email does not appear to be valid")
	}
	return nil
}

func validateBirthday(birthday string) error {
	if birthday == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, birthday); err == nil {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, birthday); err == nil {
		return nil
	}
	return fmt.Errorf("birthday must be YYYY-MM-DD")
}

// FavoritesExport is a user's favorites resolved against the catalog, as written by the exporters.
type FavoritesExport struct {
	Username   string    `json:"username"`
	ExportedAt time.Time `json:"exported_at"`
	Movies     []Movie   `json:"movies"`
	Unmatched  []string  `json:"unmatched,omitempty"` // favorite IDs with no catalog entry
}
