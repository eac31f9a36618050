package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/myflix/internal/shared"
	tu "github.com/desertthunder/myflix/internal/testing"
)

func TestBulk(t *testing.T) {
	ctx := context.Background()
	fast := BulkOpts{NumWorkers: 2, RateLimit: 1000}

	t.Run("BulkAdd", func(t *testing.T) {
		srv := tu.NewMockService(tu.SampleMovies(), "m1")
		progress := make(chan ProgressUpdate, 20)

		res, err := NewFavoritesEngine(srv).BulkAdd(ctx, progress, []string{"m2", "m3", "m10"}, fast)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Total != 3 || res.Succeeded != 3 || res.Failed != 0 {
			t.Errorf("unexpected counts %+v", res)
		}
		for i, id := range []string{"m2", "m3", "m10"} {
			if res.Results[i].MovieID != id || !res.Results[i].Success {
				t.Errorf("result %d: unexpected %+v", i, res.Results[i])
			}
		}
		if len(res.Favorites) != 4 {
			t.Errorf("expected 4 favorites after refetch, got %v", res.Favorites)
		}

		close(progress)
		var updates []ProgressUpdate
		for u := range progress {
			updates = append(updates, u)
		}
		if len(updates) != 4 {
			t.Fatalf("expected 4 progress updates, got %d", len(updates))
		}
		if updates[0].Phase != AddFavorites || !strings.HasPrefix(updates[0].Message, "Adding 3") {
			t.Errorf("unexpected first update %+v", updates[0])
		}
		if updates[3].Step != 3 || updates[3].Total != 3 {
			t.Errorf("unexpected last update %+v", updates[3])
		}
	})

	t.Run("BulkRemove", func(t *testing.T) {
		srv := tu.NewMockService(tu.SampleMovies(), "m1", "m2", "m3")
		res, err := NewFavoritesEngine(srv).BulkRemove(ctx, nil, []string{"m1", "m3"}, fast)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Succeeded != 2 {
			t.Errorf("expected 2 successes, got %d", res.Succeeded)
		}
		if len(res.Favorites) != 1 || res.Favorites[0] != "m2" {
			t.Errorf("expected [m2], got %v", res.Favorites)
		}
	})

	t.Run("Partial Failures Are Recorded", func(t *testing.T) {
		srv := tu.NewMockService(tu.SampleMovies())
		srv.ErrAdd = shared.ErrAPIRequest

		res, err := NewFavoritesEngine(srv).BulkAdd(ctx, nil, []string{"m1", "m2"}, fast)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Failed != 2 || res.Succeeded != 0 {
			t.Errorf("unexpected counts %+v", res)
		}
		if !errors.Is(res.Results[0].Error, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", res.Results[0].Error)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		srv := tu.NewMockService(tu.SampleMovies())
		if _, err := NewFavoritesEngine(srv).BulkAdd(ctx, nil, nil, fast); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		srv := tu.NewMockService(tu.SampleMovies())
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res, err := NewFavoritesEngine(srv).BulkAdd(cancelled, nil, []string{"m1", "m2"}, fast)
		if !errors.Is(err, shared.ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
		if res.Failed != 2 {
			t.Errorf("expected 2 failures, got %d", res.Failed)
		}
		if srv.CallCount("AddFavorite") != 0 {
			t.Error("expected no requests after cancellation")
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		o := BulkOpts{NumWorkers: 50}.withDefaults()
		if o.NumWorkers != 10 || o.RateLimit != 5.0 {
			t.Errorf("unexpected defaults %+v", o)
		}
		o = BulkOpts{}.withDefaults()
		if o.NumWorkers != 3 {
			t.Errorf("expected 3 workers, got %d", o.NumWorkers)
		}
	})
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		FetchMovies:        "fetch_movies",
		FetchFavorites:     "fetch_favorites",
		ReconcileFavorites: "reconcile",
		ResolveTitles:      "resolve_titles",
		AddFavorites:       "add_favorites",
		RemoveFavorites:    "remove_favorites",
		Phase(99):          "",
	}
	for phase, want := range tests {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(phase), got, want)
		}
	}
}
