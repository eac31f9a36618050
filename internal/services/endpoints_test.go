package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
)

// fakeAPI is a minimal stand-in for the myFlix API.
type fakeAPI struct {
	mu        sync.Mutex
	user      models.User
	token     string
	lastAuth  string
	lastBody  string
	requests  int
	deleteErr int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		user:  models.User{ID: "u1", Username: "testuser", Email: "test@example.com", Favorites: []string{"m1"}},
		token: "secret-token",
	}
}

func (f *fakeAPI) authorized(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	f.lastAuth = r.Header.Get("Authorization")
	f.requests++
	ok := f.lastAuth == "Bearer "+f.token
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorized"))
	}
	return ok
}

func (f *fakeAPI) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "password" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Incorrect username or password."}`))
			return
		}
		f.writeJSON(w, http.StatusOK, models.LoginResponse{User: f.user, Token: f.token})
	})
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username == "takenname" {
			f.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"errors": []map[string]string{{"msg": "Username already exists", "param": "Username"}},
			})
			return
		}
		f.writeJSON(w, http.StatusCreated, models.User{ID: "u2", Username: req.Username, Email: req.Email, Favorites: []string{}})
	})
	mux.HandleFunc("GET /movies", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.writeJSON(w, http.StatusOK, []models.Movie{{ID: "m1", Title: "Alien"}, {ID: "m2", Title: "Heat"}})
	})
	mux.HandleFunc("GET /movies/{title}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		if r.PathValue("title") != "Alien" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.writeJSON(w, http.StatusOK, models.Movie{ID: "m1", Title: "Alien"})
	})
	mux.HandleFunc("GET /movies/genre/{name}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.writeJSON(w, http.StatusOK, models.Genre{Name: r.PathValue("name"), Description: "Scary."})
	})
	mux.HandleFunc("GET /movies/directors/{name}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.writeJSON(w, http.StatusOK, models.Director{Name: r.PathValue("name"), Bio: "Filmmaker.", Birthday: "1937-11-30"})
	})
	mux.HandleFunc("GET /users/{username}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		if r.PathValue("username") != f.user.Username {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.writeJSON(w, http.StatusOK, f.user)
	})
	mux.HandleFunc("PUT /users/{username}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		var req models.UpdateUserRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "" {
			f.user.Username = req.Username
		}
		if req.Email != "" {
			f.user.Email = req.Email
		}
		f.writeJSON(w, http.StatusOK, f.user)
	})
	mux.HandleFunc("DELETE /users/{username}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		if f.deleteErr != 0 {
			w.WriteHeader(f.deleteErr)
			return
		}
		w.Write([]byte(r.PathValue("username") + " was deleted."))
	})
	mux.HandleFunc("POST /users/{username}/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.lastBody = string(body)
		f.mu.Unlock()
		if !f.user.HasFavorite(r.PathValue("id")) {
			f.user.Favorites = append(f.user.Favorites, r.PathValue("id"))
		}
		f.writeJSON(w, http.StatusOK, f.user)
	})
	mux.HandleFunc("DELETE /users/{username}/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		kept := []string{}
		for _, id := range f.user.Favorites {
			if id != r.PathValue("id") {
				kept = append(kept, id)
			}
		}
		f.user.Favorites = kept
		f.writeJSON(w, http.StatusOK, f.user)
	})
	return mux
}

func setupClient(t *testing.T) (*Client, *fakeAPI, *session.MemoryStore) {
	t.Helper()
	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()
	client := NewClient(ClientOpts{BaseURL: server.URL, Session: session.New(store)})
	return client, api, store
}

func loginClient(t *testing.T, client *Client) {
	t.Helper()
	if _, err := client.Login(context.Background(), models.LoginRequest{Username: "testuser", Password: "password"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("NewClient", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			client := NewClient(ClientOpts{})
			if client.BaseURL() != DefaultBaseURL {
				t.Errorf("expected default base URL, got %s", client.BaseURL())
			}
			if client.Session() == nil {
				t.Error("expected a session")
			}
			if client.Session().Authenticated() {
				t.Error("expected anonymous session")
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			client := NewClient(ClientOpts{BaseURL: "http://example.com/"})
			if client.BaseURL() != "http://example.com" {
				t.Errorf("expected trimmed URL, got %s", client.BaseURL())
			}
		})

		t.Run("Timeout Override", func(t *testing.T) {
			client := NewClient(ClientOpts{Timeout: 5 * time.Second})
			if client.public.Timeout != 5*time.Second || client.authed.Timeout != 5*time.Second {
				t.Errorf("expected 5s timeouts, got %v and %v", client.public.Timeout, client.authed.Timeout)
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Begins Session", func(t *testing.T) {
			client, _, store := setupClient(t)
			resp, err := client.Login(ctx, models.LoginRequest{Username: "testuser", Password: "password"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Token != "secret-token" {
				t.Errorf("expected token, got %q", resp.Token)
			}
			if !client.Session().Authenticated() {
				t.Error("expected authenticated session")
			}
			if client.Session().Username() != "testuser" {
				t.Errorf("expected username testuser, got %s", client.Session().Username())
			}
			if len(store.Events) != 1 || store.Events[0] != "testuser:login" {
				t.Errorf("expected login event, got %v", store.Events)
			}
		})

		t.Run("Bad Credentials", func(t *testing.T) {
			client, _, _ := setupClient(t)
			_, err := client.Login(ctx, models.LoginRequest{Username: "testuser", Password: "wrong"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsKind(err, KindHTTP4xx) {
				t.Errorf("expected http4xx error, got %v", err)
			}
			if UserMessage(err) != "Incorrect username or password." {
				t.Errorf("unexpected message %q", UserMessage(err))
			}
			if client.Session().Authenticated() {
				t.Error("expected anonymous session after failed login")
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			client, api, _ := setupClient(t)
			_, err := client.Login(ctx, models.LoginRequest{Username: "testuser"})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if api.requests != 0 {
				t.Errorf("expected no requests, got %d", api.requests)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		client, _, store := setupClient(t)
		loginClient(t, client)

		if err := client.Logout(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.Session().Authenticated() {
			t.Error("expected anonymous session")
		}
		if d, _ := store.Load(ctx); d.Valid() {
			t.Error("expected store to be cleared")
		}
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("Creates User", func(t *testing.T) {
			client, _, _ := setupClient(t)
			user, err := client.Register(ctx, models.RegisterRequest{
				Username: "newuser1", Password: "pw", Email: "new@example.com", Birthday: "1990-01-01",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Username != "newuser1" {
				t.Errorf("expected newuser1, got %s", user.Username)
			}
			if client.Session().Authenticated() {
				t.Error("register must not log in")
			}
		})

		t.Run("Validation Error", func(t *testing.T) {
			client, _, _ := setupClient(t)
			_, err := client.Register(ctx, models.RegisterRequest{Username: "takenname", Password: "pw", Email: "a@b.com"})
			if !IsKind(err, KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatal("expected APIError")
			}
			msg, ok := apiErr.FirstDetail()
			if !ok || msg != "Username already exists" {
				t.Errorf("expected first detail, got %q", msg)
			}
			if apiErr.Details[0].Field() != "Username" {
				t.Errorf("expected field Username, got %s", apiErr.Details[0].Field())
			}
		})

		t.Run("Local Validation", func(t *testing.T) {
			client, api, _ := setupClient(t)
			_, err := client.Register(ctx, models.RegisterRequest{Username: "abc", Password: "pw", Email: "a@b.com"})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if api.requests != 0 {
				t.Errorf("expected no requests, got %d", api.requests)
			}
		})
	})

	t.Run("Catalog", func(t *testing.T) {
		client, api, _ := setupClient(t)
		loginClient(t, client)

		movies, err := client.GetMovies(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movies) != 2 || movies[0].ID != "m1" {
			t.Errorf("unexpected movies %+v", movies)
		}
		if api.lastAuth != "Bearer secret-token" {
			t.Errorf("expected bearer header, got %q", api.lastAuth)
		}

		movie, err := client.GetMovie(ctx, "Alien")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if movie.ID != "m1" {
			t.Errorf("expected m1, got %s", movie.ID)
		}

		_, err = client.GetMovie(ctx, "Missing")
		if !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}

		genre, err := client.GetGenre(ctx, "Horror")
		if err != nil || genre.Name != "Horror" {
			t.Errorf("unexpected genre %+v, err %v", genre, err)
		}

		director, err := client.GetDirector(ctx, "Ridley Scott")
		if err != nil || director.Name != "Ridley Scott" || director.Birthday != "1937-11-30" {
			t.Errorf("unexpected director %+v, err %v", director, err)
		}

		if _, err := client.GetGenre(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Requires Session", func(t *testing.T) {
		client, api, _ := setupClient(t)

		calls := map[string]func() error{
			"GetMovies":   func() error { _, err := client.GetMovies(ctx); return err },
			"GetUser":     func() error { _, err := client.GetUser(ctx); return err },
			"AddFavorite": func() error { _, err := client.AddFavorite(ctx, "m1"); return err },
			"DeleteUser":  func() error { _, err := client.DeleteUser(ctx); return err },
		}
		for name, call := range calls {
			t.Run(name, func(t *testing.T) {
				if err := call(); !errors.Is(err, shared.ErrNotAuthenticated) {
					t.Errorf("expected ErrNotAuthenticated, got %v", err)
				}
			})
		}
		if api.requests != 0 {
			t.Errorf("expected no requests, got %d", api.requests)
		}
	})

	t.Run("Unauthorized Status", func(t *testing.T) {
		client, api, _ := setupClient(t)
		loginClient(t, client)
		api.token = "rotated"

		_, err := client.GetMovies(ctx)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated from 401, got %v", err)
		}
		if !IsKind(err, KindHTTP4xx) {
			t.Errorf("expected http4xx kind, got %v", err)
		}
	})

	t.Run("Favorites", func(t *testing.T) {
		client, api, _ := setupClient(t)
		loginClient(t, client)

		favs, err := client.GetFavorites(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(favs) != 1 || favs[0] != "m1" {
			t.Errorf("expected [m1], got %v", favs)
		}

		user, err := client.AddFavorite(ctx, "m2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !user.HasFavorite("m2") {
			t.Errorf("expected m2 in favorites, got %v", user.Favorites)
		}
		if api.lastBody != `{"Favorites":"m2"}` {
			t.Errorf("unexpected add body %s", api.lastBody)
		}

		user, err = client.RemoveFavorite(ctx, "m1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.HasFavorite("m1") {
			t.Errorf("expected m1 removed, got %v", user.Favorites)
		}

		if _, err := client.AddFavorite(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("UpdateUser", func(t *testing.T) {
		t.Run("Renames Session", func(t *testing.T) {
			client, _, store := setupClient(t)
			loginClient(t, client)

			user, err := client.UpdateUser(ctx, models.UpdateUserRequest{Username: "renamed1"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Username != "renamed1" {
				t.Errorf("expected renamed1, got %s", user.Username)
			}
			if client.Session().Username() != "renamed1" {
				t.Errorf("expected session to follow rename, got %s", client.Session().Username())
			}
			if client.Session().BearerToken() != "secret-token" {
				t.Error("expected token to be kept")
			}

			if _, err := client.GetUser(ctx); err != nil {
				t.Errorf("expected lookups to use the new name, got %v", err)
			}
			if got := store.Events[len(store.Events)-1]; got != "renamed1:rename" {
				t.Errorf("expected rename event, got %s", got)
			}
		})

		t.Run("Empty Request", func(t *testing.T) {
			client, _, _ := setupClient(t)
			loginClient(t, client)
			if _, err := client.UpdateUser(ctx, models.UpdateUserRequest{}); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("DeleteUser", func(t *testing.T) {
		t.Run("Plain Text Response", func(t *testing.T) {
			client, _, store := setupClient(t)
			loginClient(t, client)

			msg, err := client.DeleteUser(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.Message != "testuser was deleted." {
				t.Errorf("unexpected message %q", msg.Message)
			}
			if client.Session().Authenticated() {
				t.Error("expected session to be cleared")
			}
			if got := store.Events[len(store.Events)-1]; got != "testuser:delete" {
				t.Errorf("expected delete event, got %s", got)
			}

			if _, err := client.GetFavorites(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected calls after deletion to fail, got %v", err)
			}
		})

		t.Run("Clears Session On Failure", func(t *testing.T) {
			client, api, _ := setupClient(t)
			loginClient(t, client)
			api.deleteErr = http.StatusInternalServerError

			_, err := client.DeleteUser(ctx)
			if !IsKind(err, KindHTTP5xx) {
				t.Errorf("expected http5xx error, got %v", err)
			}
			if client.Session().Authenticated() {
				t.Error("expected session to be cleared even on failure")
			}
		})
	})

	t.Run("Request ID Header", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get(RequestIDHeader)
			w.Write([]byte("[]"))
		}))
		defer server.Close()

		client := NewClient(ClientOpts{BaseURL: server.URL})
		client.Get(ctx, "/movies")
		if len(got) != 36 {
			t.Errorf("expected uuid request id, got %q", got)
		}
	})

	t.Run("Rate Limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(ClientOpts{BaseURL: server.URL, RateLimit: 20})
		start := time.Now()
		for range 3 {
			if _, err := client.Get(ctx, "/"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
			t.Errorf("expected throttling to take at least 90ms, took %v", elapsed)
		}

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := client.Get(cancelled, "/"); !IsKind(err, KindNetwork) {
			t.Errorf("expected network error for cancelled wait, got %v", err)
		}
	})
}
