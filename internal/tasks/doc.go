// Package tasks builds the client's views on top of the myFlix API with progress reporting.
//
// # Reconciliation
//
// The API stores a user's favorites as a list of movie IDs. [Reconcile] maps that list onto the catalog,
// one slot per favorite in favorites order. IDs match by exact equality; a favorite with no catalog entry
// leaves a nil slot so the result always has the same length as the favorites list. [Present] drops those
// slots for display.
//
// # Views
//
// [FavoritesEngine] loads the two catalog views:
//
//  1. [FavoritesEngine.LoadMovies] : every movie plus the favorite IDs, fetched concurrently
//  2. [FavoritesEngine.LoadFavorites] : the favorite IDs reconciled against the catalog
//
// Mutations ([FavoritesEngine.Add], [FavoritesEngine.Remove], [FavoritesEngine.Toggle]) are followed by a
// full refetch of the view. There is no incremental update.
//
// # Progress Reporting
//
// [FavoritesEngine.BulkAdd] and [FavoritesEngine.BulkRemove] run a rate limited worker pool and report
// [ProgressUpdate] values on an optional channel. Updates use select with default to prevent blocking.
package tasks
