package models

import (
	"encoding/json"
	"testing"
)

func TestMovieDecoding(t *testing.T) {
	body := `{
		"_id": "5f1a",
		"Title": "Inception",
		"Description": "Dreams within dreams.",
		"Genre": {"Name": "Sci-Fi", "Description": "Speculative fiction."},
		"Director": {"Name": "Christopher Nolan", "Bio": "British-American filmmaker.", "Birthday": "1970-07-30"},
		"ImagePath": "https://example.com/inception.jpg",
		"Featured": true
	}`

	var m Movie
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("failed to decode movie: %v", err)
	}

	if m.ID != "5f1a" {
		t.Errorf("expected ID 5f1a, got %s", m.ID)
	}
	if m.Genre.Name != "Sci-Fi" {
		t.Errorf("expected genre Sci-Fi, got %s", m.Genre.Name)
	}
	if m.Director.Birthday != "1970-07-30" {
		t.Errorf("expected director birthday, got %q", m.Director.Birthday)
	}
	if !m.Featured {
		t.Error("expected featured movie")
	}
}

func TestUser(t *testing.T) {
	u := User{Username: "alice01", Password: "secret", Favorites: []string{"m1", "m2"}}

	t.Run("Public Drops Password", func(t *testing.T) {
		pub := u.Public()
		if pub.Password != "" {
			t.Error("expected password to be cleared")
		}
		if u.Password != "secret" {
			t.Error("Public should not modify the receiver")
		}

		data, err := json.Marshal(pub)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		var raw map[string]any
		json.Unmarshal(data, &raw)
		if _, ok := raw["Password"]; ok {
			t.Error("password key should be omitted")
		}
	})

	t.Run("HasFavorite", func(t *testing.T) {
		if !u.HasFavorite("m1") {
			t.Error("expected m1 to be a favorite")
		}
		if u.HasFavorite("m") {
			t.Error("partial IDs must not match")
		}
		if (User{}).HasFavorite("m1") {
			t.Error("empty favorites should never match")
		}
	})
}

func TestRequestValidation(t *testing.T) {
	tc := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr bool
	}{
		{name: "valid register", req: RegisterRequest{Username: "alice01", Password: "pw", Email: "a@example.com", Birthday: "1990-01-01"}},
		{name: "short username", req: RegisterRequest{Username: "al", Password: "pw", Email: "a@example.com"}, wantErr: true},
		{name: "non alphanumeric username", req: RegisterRequest{Username: "alice_01", Password: "pw", Email: "a@example.com"}, wantErr: true},
		{name: "missing password", req: RegisterRequest{Username: "alice01", Email: "a@example.com"}, wantErr: true},
		{name: "bad email", req: RegisterRequest{Username: "alice01", Password: "pw", Email: "nope"}, wantErr: true},
		{name: "bad birthday", req: RegisterRequest{Username: "alice01", Password: "pw", Email: "a@example.com", Birthday: "01/01/1990"}, wantErr: true},
		{name: "valid login", req: LoginRequest{Username: "alice01", Password: "pw"}},
		{name: "empty login", req: LoginRequest{}, wantErr: true},
		{name: "valid update", req: UpdateUserRequest{Email: "b@example.com"}},
		{name: "empty update", req: UpdateUserRequest{}, wantErr: true},
		{name: "update bad username", req: UpdateUserRequest{Username: "x"}, wantErr: true},
		{name: "update RFC3339 birthday", req: UpdateUserRequest{Birthday: "1990-01-01T00:00:00Z"}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateUserRequestOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(UpdateUserRequest{Email: "b@example.com"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"Email":"b@example.com"}` {
		t.Errorf("unexpected body %s", data)
	}
}
