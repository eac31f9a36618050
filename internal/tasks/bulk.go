package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/myflix/internal/shared"
	"golang.org/x/time/rate"
)

// BulkOpts contains configuration for bulk favorite updates.
type BulkOpts struct {
	NumWorkers int     // Concurrent workers (default: 3, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

func (o BulkOpts) withDefaults() BulkOpts {
	if o.NumWorkers <= 0 {
		o.NumWorkers = 3
	}
	if o.NumWorkers > 10 {
		o.NumWorkers = 10
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 5.0
	}
	return o
}

// FavoriteResult is the outcome for one movie ID.
type FavoriteResult struct {
	MovieID string
	Success bool
	Error   error
}

// BulkResult summarizes a bulk favorites run. Results follow the input order.
type BulkResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []FavoriteResult
	Favorites []string // favorites after the run, from the final refetch
}

type bulkJob struct {
	index   int
	movieID string
}

// BulkAdd adds every ID to the favorites.
func (e *FavoritesEngine) BulkAdd(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkOpts) (*BulkResult, error) {
	return e.bulk(ctx, progress, ids, opts, true)
}

// BulkRemove removes every ID from the favorites.
func (e *FavoritesEngine) BulkRemove(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkOpts) (*BulkResult, error) {
	return e.bulk(ctx, progress, ids, opts, false)
}

// bulk runs a worker pool over ids with rate limiting. Per-ID failures are recorded, not returned.
//
// Cancellation stops dispatch; IDs never dispatched are reported as failed with ctx.Err().
func (e *FavoritesEngine) bulk(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkOpts, add bool) (*BulkResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no movie IDs", shared.ErrMissingArgument)
	}
	opts = opts.withDefaults()

	result := &BulkResult{Total: len(ids), Results: make([]FavoriteResult, len(ids))}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan bulkJob, len(ids))
	done := make(chan bulkJob, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.bulkWorker(ctx, &wg, jobs, done, result, add)
	}

	e.sendProgress(progress, bulkStartedUpdate(add, len(ids)))

	dispatched := 0
	for i, id := range ids {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		jobs <- bulkJob{index: i, movieID: id}
		dispatched++
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for job := range done {
		completed++
		res := result.Results[job.index]
		if res.Success {
			result.Succeeded++
			e.sendProgress(progress, bulkCompletedUpdate(add, completed, len(ids), res.MovieID))
		} else {
			result.Failed++
			e.sendProgress(progress, bulkFailedUpdate(add, completed, len(ids), res.MovieID, res.Error))
		}
	}

	for i := dispatched; i < len(ids); i++ {
		result.Results[i] = FavoriteResult{MovieID: ids[i], Error: ctx.Err()}
		result.Failed++
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
	}

	favorites, err := e.srv.GetFavorites(ctx)
	if err != nil {
		return result, fmt.Errorf("bulk update completed but failed to refetch favorites: %w", err)
	}
	result.Favorites = favorites
	return result, nil
}

// bulkWorker applies one favorite mutation per job. Each job writes only its own result slot.
func (e *FavoritesEngine) bulkWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan bulkJob,
	done chan<- bulkJob,
	result *BulkResult,
	add bool,
) {
	defer wg.Done()

	for job := range jobs {
		res := FavoriteResult{MovieID: job.movieID}

		var err error
		if add {
			_, err = e.srv.AddFavorite(ctx, job.movieID)
		} else {
			_, err = e.srv.RemoveFavorite(ctx, job.movieID)
		}

		if err != nil {
			res.Error = err
		} else {
			res.Success = true
		}
		result.Results[job.index] = res
		done <- job
	}
}
