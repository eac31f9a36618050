// Package session holds the authenticated user's credentials for the API client.
//
// A [Session] is an explicit object handed to the client at construction time.
// It moves between two states:
//
//	anonymous --Begin--> authenticated --End--> anonymous
//
// Begin stores the username and bearer token; End clears all session storage regardless of the prior state.
// Persistence is delegated to a [Store], so the same session works against SQLite in the CLI and memory in tests.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// Storage keys, shared with the browser client's local storage layout.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// Event kinds recorded on session transitions.
const (
	EventLogin  = "login"
	EventLogout = "logout"
	EventDelete = "delete"
	EventRename = "rename"
)

// State is the session lifecycle state.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Data is the persisted session payload.
type Data struct {
	Username string
	Token    string
}

// Valid reports whether both entries are present.
func (d Data) Valid() bool {
	return d.Username != "" && d.Token != ""
}

// Store persists session data.
type Store interface {
	Load(ctx context.Context) (Data, error) // Load returns the zero Data when nothing is stored
	Save(ctx context.Context, d Data) error
	Clear(ctx context.Context) error
}

// EventRecorder is implemented by stores that keep an audit trail of transitions.
type EventRecorder interface {
	RecordEvent(ctx context.Context, username, kind string) error
}

// Session is the process-wide credential holder. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	data  Data
	store Store
}

// New creates an anonymous session backed by store. A nil store keeps the session in memory only.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Init restores a previously persisted session. Partial data (a user without a token) is discarded.
func (s *Session) Init(ctx context.Context) error {
	d, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if d.Valid() {
		s.data = d
	} else {
		s.data = Data{}
	}
	return nil
}

// Begin records a successful login.
func (s *Session) Begin(ctx context.Context, username, token string) error {
	d := Data{Username: username, Token: token}
	if !d.Valid() {
		return fmt.Errorf("session requires both username and token")
	}

	if err := s.store.Save(ctx, d); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.data = d
	s.mu.Unlock()

	s.record(ctx, username, EventLogin)
	return nil
}

// End clears the session. kind is recorded as the reason (EventLogout or EventDelete).
//
// The in-memory state is cleared even when the store fails. When the stored entries cannot be
// removed the token is overwritten with an empty value so a later Init starts anonymous.
func (s *Session) End(ctx context.Context, kind string) error {
	s.mu.Lock()
	username := s.data.Username
	s.data = Data{}
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		if saveErr := s.store.Save(ctx, Data{Username: username}); saveErr != nil {
			return fmt.Errorf("failed to clear session: %w", errors.Join(err, saveErr))
		}
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if username != "" {
		s.record(ctx, username, kind)
	}
	return nil
}

// Rename replaces the stored username, keeping the token.
func (s *Session) Rename(ctx context.Context, username string) error {
	s.mu.Lock()
	if !s.data.Valid() {
		s.mu.Unlock()
		return fmt.Errorf("cannot rename an anonymous session")
	}
	if username == "" || username == s.data.Username {
		s.mu.Unlock()
		return nil
	}
	d := Data{Username: username, Token: s.data.Token}
	s.mu.Unlock()

	if err := s.store.Save(ctx, d); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.data = d
	s.mu.Unlock()

	s.record(ctx, username, EventRename)
	return nil
}

// Username returns the current username, empty when anonymous.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Username
}

// BearerToken returns the current token, empty when anonymous.
func (s *Session) BearerToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// Snapshot returns a copy of the current data.
func (s *Session) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// State returns the lifecycle state.
func (s *Session) State() State {
	if s.Snapshot().Valid() {
		return Authenticated
	}
	return Anonymous
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.State() == Authenticated
}

// TokenSource returns an [oauth2.TokenSource] that reads the token at call time.
func (s *Session) TokenSource() oauth2.TokenSource {
	return tokenSource{s: s}
}

func (s *Session) record(ctx context.Context, username, kind string) {
	if rec, ok := s.store.(EventRecorder); ok {
		// audit failures never block a transition
		_ = rec.RecordEvent(ctx, username, kind)
	}
}

type tokenSource struct {
	s *Session
}

// Token implements [oauth2.TokenSource]. It fails with [ErrNoToken] for anonymous sessions.
func (ts tokenSource) Token() (*oauth2.Token, error) {
	tok := ts.s.BearerToken()
	if tok == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}
