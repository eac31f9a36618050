// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the myFlix browser client:
//  1. [MovieListView] : Browse every movie, open detail dialogs and toggle favorites
//  2. [FavoritesListView] : The user's favorites reconciled against the catalog
//  3. [ProfileView] : Account details and account deletion
//  4. [LandingView] : Shown after logout or deletion, before quitting
//
// Detail dialogs ([GenreDialog], [DirectorDialog], [SynopsisDialog]) are pure display: they are opened with
// a payload taken from the selected movie and never call the API. [RenderDialog] is shared with the CLI.
//
// Every fetch runs as a [tea.Cmd] tagged with a generation number. Switching views bumps the generation,
// so a slow response for a view the user already left is dropped instead of overwriting the current one.
package ui
