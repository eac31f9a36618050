package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchMovies Phase = iota
	FetchFavorites
	ReconcileFavorites
	ResolveTitles
	AddFavorites
	RemoveFavorites
)

func (p Phase) String() string {
	switch p {
	case FetchMovies:
		return "fetch_movies"
	case FetchFavorites:
		return "fetch_favorites"
	case ReconcileFavorites:
		return "reconcile"
	case ResolveTitles:
		return "resolve_titles"
	case AddFavorites:
		return "add_favorites"
	case RemoveFavorites:
		return "remove_favorites"
	default:
		return ""
	}
}

func fetchingMoviesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMovies,
		Step:    1,
		Total:   1,
		Message: "Fetching movies...",
	}
}

func resolvedTitlesUpdate(found, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTitles,
		Step:    found,
		Total:   total,
		Message: fmt.Sprintf("Resolved %d of %d titles", found, total),
	}
}

func bulkPhase(add bool) Phase {
	if add {
		return AddFavorites
	}
	return RemoveFavorites
}

func bulkStartedUpdate(add bool, total int) ProgressUpdate {
	verb := "Removing"
	if add {
		verb = "Adding"
	}
	return ProgressUpdate{
		Phase:   bulkPhase(add),
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("%s %d favorites...", verb, total),
	}
}

func bulkCompletedUpdate(add bool, step, total int, movieID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   bulkPhase(add),
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, movieID),
		Data:    movieID,
	}
}

func bulkFailedUpdate(add bool, step, total int, movieID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   bulkPhase(add),
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, movieID, err),
		Data:    movieID,
	}
}
