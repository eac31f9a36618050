package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/myflix/internal/formatter"
	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the favorites reconciled against the catalog.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	view, err := r.engine.LoadFavorites(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(view.Movies(), cmd.Bool("pretty"))
	}

	if len(view.Favorites) == 0 {
		return r.writePlain("No favorites yet. Add one with 'myflix favorites add <title>'\n")
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(view.Favorites)))
	for i, slot := range view.Slots {
		if slot == nil {
			r.writePlain("%2d. unknown movie %s\n", i+1, view.Favorites[i])
			continue
		}
		r.writePlain("%2d. %s (%s, %s)\n", i+1, slot.Title, slot.Genre.Name, slot.Director.Name)
	}
	return nil
}

// FavoritesAdd adds one or more movies by title or ID.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.changeFavorites(ctx, cmd, true)
}

// FavoritesRemove removes one or more movies by title or ID.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	return r.changeFavorites(ctx, cmd, false)
}

func (r *Runner) changeFavorites(ctx context.Context, cmd *cli.Command, add bool) error {
	if err := r.requireService(); err != nil {
		return err
	}

	refs := cmd.Args().Slice()
	if len(refs) == 0 {
		return fmt.Errorf("%w: at least one movie title or ID", shared.ErrMissingArgument)
	}

	res, err := r.engine.ResolveTitles(ctx, nil, refs)
	if err != nil {
		return err
	}
	ids := res.IDs

	if !add && len(res.Missing) > 0 {
		// IDs of movies gone from the catalog can still be removed.
		favorites, err := r.service.GetFavorites(ctx)
		if err != nil {
			return err
		}
		missing := []string{}
		for _, ref := range res.Missing {
			if tasks.IsFavorite(favorites, ref) {
				ids = append(ids, ref)
			} else {
				missing = append(missing, ref)
			}
		}
		res.Missing = missing
	}

	for _, ref := range res.Missing {
		r.writePlain("✗ No movie matches %q\n", ref)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: no matching movies", shared.ErrMovieNotFound)
	}

	if len(ids) == 1 {
		return r.changeFavorite(ctx, ids[0], add)
	}

	progress, stop := r.progressPrinter()
	opts := tasks.BulkOpts{NumWorkers: cmd.Int("workers"), RateLimit: cmd.Float("rate")}
	var result *tasks.BulkResult
	if add {
		result, err = r.engine.BulkAdd(ctx, progress, ids, opts)
	} else {
		result, err = r.engine.BulkRemove(ctx, progress, ids, opts)
	}
	stop()

	if result != nil {
		r.writeBulkSummary(result)
	}
	return err
}

func (r *Runner) changeFavorite(ctx context.Context, movieID string, add bool) error {
	if add {
		view, err := r.engine.Add(ctx, movieID)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Added %s (%d favorites)\n", movieID, len(view.Favorites))
	}

	view, err := r.engine.Remove(ctx, movieID)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s (%d favorites)\n", movieID, len(view.Favorites))
}

func (r *Runner) writeBulkSummary(result *tasks.BulkResult) {
	r.writePlain("\n")
	r.writePlainHeader("Favorites Updated")
	r.writePlain("Succeeded: %d/%d\n", result.Succeeded, result.Total)
	if result.Favorites != nil {
		r.writePlain("Favorites now: %d\n", len(result.Favorites))
	}
	if result.Failed > 0 {
		r.writePlain("\nFailed:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.MovieID, res.Error)
			}
		}
	}
}

func (r *Runner) username() string {
	if r.client == nil {
		return ""
	}
	return r.client.Session().Username()
}

func renderExport(export *models.FavoritesExport, format string) ([]byte, error) {
	switch format {
	case formatter.FormatCSV:
		return formatter.ExportToCSV(export)
	case formatter.FormatMarkdown:
		return formatter.ExportToMarkdown(export, nil)
	case formatter.FormatText:
		return formatter.ExportToText(export)
	case formatter.FormatJSON, "":
		return formatter.ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// FavoritesExport writes the favorites to stdout or a file.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	output := cmd.String("output")
	format := cmd.String("format")
	if format == "" && output != "" {
		format = formatter.DetectFormat(output)
	}

	view, err := r.engine.LoadFavorites(ctx)
	if err != nil {
		return err
	}

	export := &models.FavoritesExport{
		Username:   r.username(),
		ExportedAt: time.Now().UTC(),
		Movies:     view.Movies(),
		Unmatched:  view.Unmatched(),
	}

	if output == "" {
		data, err := renderExport(export, format)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	r.logger.Info("exporting favorites", "format", format, "path", output, "movies", len(export.Movies))

	files, err := formatter.WriteExport(export, format, output, cmd.Bool("posters"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d favorites\n", len(export.Movies))
	if len(export.Unmatched) > 0 {
		r.writePlain("  %d favorites are no longer in the catalog\n", len(export.Unmatched))
	}
	for _, f := range files {
		r.writePlain("  %s\n", f)
	}
	return nil
}

// FavoritesImport adds the movies listed in an export file to the favorites.
func (r *Runner) FavoritesImport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	data, err := shared.VerifyAndReadFile(path)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if format == "" {
		format = formatter.DetectFormat(path)
	}

	refs, err := formatter.ParseImport(data, format)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return fmt.Errorf("%w: %s lists no movies", shared.ErrInvalidInput, path)
	}

	r.logger.Info("importing favorites", "path", path, "format", format, "entries", len(refs))

	progress, stop := r.progressPrinter()
	res, err := r.engine.ResolveTitles(ctx, progress, refs)
	stop()
	if err != nil {
		return err
	}

	for _, ref := range res.Missing {
		r.writePlain("✗ No movie matches %q\n", ref)
	}

	favorites, err := r.service.GetFavorites(ctx)
	if err != nil {
		return err
	}
	ids := []string{}
	for _, id := range res.IDs {
		if !tasks.IsFavorite(favorites, id) {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return r.writePlain("Nothing to import: every matched movie is already a favorite\n")
	}

	if cmd.Bool("dry-run") {
		r.writePlain("Would add %d favorites:\n", len(ids))
		for _, id := range ids {
			r.writePlain("  %s\n", id)
		}
		return nil
	}

	progress, stop = r.progressPrinter()
	result, err := r.engine.BulkAdd(ctx, progress, ids, tasks.BulkOpts{NumWorkers: cmd.Int("workers"), RateLimit: cmd.Float("rate")})
	stop()

	if result != nil {
		r.writeBulkSummary(result)
	}
	return err
}
