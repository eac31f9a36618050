package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: shared.MemoryDatabase})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		d, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if d.Valid() || d.Username != "" || d.Token != "" {
			t.Errorf("expected empty data, got %+v", d)
		}
	})

	t.Run("Save And Load", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(ctx, session.Data{Username: "alice01", Token: "tok"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		d, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if d.Username != "alice01" || d.Token != "tok" {
			t.Errorf("unexpected data %+v", d)
		}
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db)

		repo.Save(ctx, session.Data{Username: "alice01", Token: "one"})
		repo.Save(ctx, session.Data{Username: "alice02", Token: "two"})

		d, _ := repo.Load(ctx)
		if d.Username != "alice02" || d.Token != "two" {
			t.Errorf("expected overwritten data, got %+v", d)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM session").Scan(&count); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 2 {
			t.Errorf("expected exactly two entries, got %d", count)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		repo.Save(ctx, session.Data{Username: "alice01", Token: "tok"})

		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		d, _ := repo.Load(ctx)
		if d.Username != "" || d.Token != "" {
			t.Errorf("expected cleared data, got %+v", d)
		}

		if err := repo.Clear(ctx); err != nil {
			t.Errorf("clearing an empty session should succeed, got %v", err)
		}
	})

	t.Run("Events", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		for _, kind := range []string{session.EventLogin, session.EventLogout, session.EventLogin} {
			if err := repo.RecordEvent(ctx, "alice01", kind); err != nil {
				t.Fatalf("RecordEvent failed: %v", err)
			}
		}

		all, err := repo.ListEvents(ctx, 0)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 events, got %d", len(all))
		}

		limited, err := repo.ListEvents(ctx, 1)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected 1 event, got %d", len(limited))
		}
		if limited[0].Kind != session.EventLogin {
			t.Errorf("expected most recent event to be login, got %s", limited[0].Kind)
		}
	})

	t.Run("Backs Session Lifecycle", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		s := session.New(repo)
		if err := s.Begin(ctx, "alice01", "tok"); err != nil {
			t.Fatalf("Begin failed: %v", err)
		}

		restored := session.New(repo)
		if err := restored.Init(ctx); err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if restored.Username() != "alice01" || restored.BearerToken() != "tok" {
			t.Errorf("expected restored session, got %+v", restored.Snapshot())
		}

		if err := restored.End(ctx, session.EventDelete); err != nil {
			t.Fatalf("End failed: %v", err)
		}

		again := session.New(repo)
		again.Init(ctx)
		if again.Authenticated() {
			t.Error("no residual token should survive End")
		}

		events, _ := repo.ListEvents(ctx, 0)
		kinds := map[string]bool{}
		for _, e := range events {
			kinds[e.Kind] = true
		}
		if !kinds[session.EventLogin] || !kinds[session.EventDelete] {
			t.Errorf("expected login and delete events, got %+v", events)
		}
	})
}
