package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/ui"
	"github.com/urfave/cli/v3"
)

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// MoviesList prints the catalog, starring favorites.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	r.logger.Info("fetching movies")

	view, err := r.engine.LoadMovies(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	movies := view.Movies
	if cmd.Bool("featured") {
		featured := []models.Movie{}
		for _, m := range movies {
			if m.Featured {
				featured = append(featured, m)
			}
		}
		movies = featured
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Movies (%d)", len(movies)))
	for i, m := range movies {
		marker := " "
		if view.IsFavorite(m.ID) {
			marker = "★"
		}
		r.writePlain("%s %2d. %s\n", marker, i+1, m.Title)
		r.writePlain("       %s · %s\n", m.Genre.Name, m.Director.Name)
	}
	return r.writePlainln("★ = favorite (%d total)", len(view.Favorites))
}

// MoviesGet prints one movie.
func (r *Runner) MoviesGet(ctx context.Context, cmd *cli.Command) error {
	movie, err := r.fetchMovie(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}

	r.writePlainHeader(movie.Title)
	r.writePlain("ID: %s\n", movie.ID)
	r.writePlain("Genre: %s\n", movie.Genre.Name)
	r.writePlain("Director: %s\n", movie.Director.Name)
	if movie.Featured {
		r.writePlain("Featured: yes\n")
	}
	if movie.ImagePath != "" {
		r.writePlain("Poster: %s\n", movie.ImagePath)
	}
	return r.writePlainln("%s", movie.Description)
}

// MoviesGenre shows the genre dialog.
func (r *Runner) MoviesGenre(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}

	genre, err := r.service.GetGenre(ctx, name)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(genre, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", ui.RenderDialog(ui.NewGenreDialog(*genre)))
}

// MoviesDirector shows the director dialog.
func (r *Runner) MoviesDirector(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}

	director, err := r.service.GetDirector(ctx, name)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(director, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", ui.RenderDialog(ui.NewDirectorDialog(*director)))
}

// MoviesSynopsis shows the synopsis dialog.
func (r *Runner) MoviesSynopsis(ctx context.Context, cmd *cli.Command) error {
	movie, err := r.fetchMovie(ctx, cmd)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.RenderDialog(ui.NewSynopsisDialog(*movie)))
}

// MoviesOpen opens the movie's poster image in the default browser.
func (r *Runner) MoviesOpen(ctx context.Context, cmd *cli.Command) error {
	movie, err := r.fetchMovie(ctx, cmd)
	if err != nil {
		return err
	}
	if movie.ImagePath == "" {
		return fmt.Errorf("%w: %s has no poster", shared.ErrInvalidInput, movie.Title)
	}

	r.logger.Info("opening poster", "title", movie.Title, "url", movie.ImagePath)
	if err := shared.OpenBrowser(movie.ImagePath); err != nil {
		r.writePlain("Could not open a browser; the poster is at:\n%s\n", movie.ImagePath)
		return err
	}
	return r.writePlain("✓ Opened poster for %s\n", movie.Title)
}

func (r *Runner) fetchMovie(ctx context.Context, cmd *cli.Command) (*models.Movie, error) {
	if err := r.requireService(); err != nil {
		return nil, err
	}
	title, err := requireArg(cmd, "title")
	if err != nil {
		return nil, err
	}
	return r.service.GetMovie(ctx, title)
}
