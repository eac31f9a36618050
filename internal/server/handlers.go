package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// validationError is one entry of a 422 body, in express-validator's shape.
type validationError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

type validationErrors []validationError

func (v *validationErrors) add(param, msg string) {
	*v = append(*v, validationError{Msg: msg, Param: param, Location: "body"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, text)
}

func writeValidation(w http.ResponseWriter, errs validationErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// checkUserFields validates account fields. requireAll is set for registration; updates check only what is set.
func checkUserFields(username, password, email, birthday string, requireAll bool) validationErrors {
	errs := validationErrors{}
	if username != "" || requireAll {
		if len(username) < 5 {
			errs.add("Username", "Username is required")
		} else if !isAlphanumeric(username) {
			errs.add("Username", "Username contains non alphanumeric characters - not allowed.")
		}
	}
	if requireAll && password == "" {
		errs.add("Password", "Password is required")
	}
	if email != "" || requireAll {
		if _, err := mail.ParseAddress(email); err != nil {
			errs.add("Email", "Email does not appear to be valid")
		}
	}
	if birthday != "" && !isDate(birthday) {
		errs.add("Birthday", "Birthday must be a date")
	}
	return errs
}

func isDate(s string) bool {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// ownAccount resolves the {username} path segment and rejects requests for another user's account.
func (s *Server) ownAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := r.PathValue("username")
	user, err := s.store.User(username)
	if err != nil {
		writeText(w, http.StatusNotFound, username+" was not found")
		return "", false
	}
	if user.ID != AuthSubject(r.Context()) {
		writeText(w, http.StatusForbidden, "Permission denied")
		return "", false
	}
	return username, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Error: "+err.Error())
		return
	}

	if errs := checkUserFields(req.Username, req.Password, req.Email, req.Birthday, true); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	user, err := s.store.CreateUser(req)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeText(w, http.StatusBadRequest, req.Username+" already exists")
			return
		}
		s.logger.Error("failed to create user", "error", err)
		writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Something is not right", "user": false})
		return
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Something is not right", "user": false})
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err)
		writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{User: user, Token: token})
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Movies())
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	movie, ok := s.store.MovieByTitle(r.PathValue("title"))
	if !ok {
		writeText(w, http.StatusNotFound, "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	genre, ok := s.store.Genre(r.PathValue("name"))
	if !ok {
		writeText(w, http.StatusNotFound, "Genre not found")
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (s *Server) handleDirector(w http.ResponseWriter, r *http.Request) {
	director, ok := s.store.Director(r.PathValue("name"))
	if !ok {
		writeText(w, http.StatusNotFound, "Director not found")
		return
	}
	writeJSON(w, http.StatusOK, director)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownAccount(w, r)
	if !ok {
		return
	}
	user, err := s.store.User(username)
	if err != nil {
		writeText(w, http.StatusNotFound, username+" was not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownAccount(w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Error: "+err.Error())
		return
	}
	if errs := checkUserFields(req.Username, req.Password, req.Email, req.Birthday, false); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	user, err := s.store.UpdateUser(username, req)
	switch {
	case errors.Is(err, shared.ErrUserNotFound):
		writeText(w, http.StatusNotFound, username+" was not found")
	case errors.Is(err, shared.ErrInvalidInput):
		errs := validationErrors{}
		errs.add("Username", req.Username+" already exists")
		writeValidation(w, errs)
	case err != nil:
		writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
	default:
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownAccount(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteUser(username); err != nil {
		writeText(w, http.StatusBadRequest, username+" was not found")
		return
	}
	writeText(w, http.StatusOK, username+" was deleted.")
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownAccount(w, r)
	if !ok {
		return
	}
	user, err := s.store.AddFavorite(username, r.PathValue("movieID"))
	switch {
	case errors.Is(err, shared.ErrMovieNotFound):
		writeText(w, http.StatusNotFound, "Movie not found")
	case err != nil:
		writeText(w, http.StatusNotFound, username+" was not found")
	default:
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ownAccount(w, r)
	if !ok {
		return
	}
	user, err := s.store.RemoveFavorite(username, r.PathValue("movieID"))
	if err != nil {
		writeText(w, http.StatusNotFound, username+" was not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// healthHandler reports liveness and the catalog size.
type healthHandler struct {
	store *Store
}

func (h healthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "movies": len(h.store.Movies())})
}
