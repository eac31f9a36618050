package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// DialogWidth is the rendered width of a detail dialog in columns, border included.
const DialogWidth = 48

// Dialog is a read-only detail box opened with a fixed payload.
type Dialog interface {
	Heading() string
	Body() string
}

var (
	_ Dialog = GenreDialog{}
	_ Dialog = DirectorDialog{}
	_ Dialog = SynopsisDialog{}
)

// GenreDialog shows a genre's name and description.
type GenreDialog struct {
	Name        string
	Description string
}

func NewGenreDialog(g models.Genre) GenreDialog {
	return GenreDialog{Name: g.Name, Description: g.Description}
}

func (d GenreDialog) Heading() string { return d.Name }
func (d GenreDialog) Body() string    { return d.Description }

// DirectorDialog shows a director's name, bio and birthday.
type DirectorDialog struct {
	Name     string
	Bio      string
	Birthday string
}

func NewDirectorDialog(d models.Director) DirectorDialog {
	return DirectorDialog{Name: d.Name, Bio: d.Bio, Birthday: d.Birthday}
}

func (d DirectorDialog) Heading() string { return d.Name }
func (d DirectorDialog) Body() string {
	if d.Birthday == "" {
		return d.Bio
	}
	return fmt.Sprintf("%s\n\nBorn: %s", d.Bio, shared.FormatDate(d.Birthday))
}

// SynopsisDialog shows a movie's title and description.
type SynopsisDialog struct {
	Title       string
	Description string
}

func NewSynopsisDialog(m models.Movie) SynopsisDialog {
	return SynopsisDialog{Title: m.Title, Description: m.Description}
}

func (d SynopsisDialog) Heading() string { return d.Title }
func (d SynopsisDialog) Body() string    { return d.Description }

// RenderDialog draws d as a bordered box [DialogWidth] columns wide.
func RenderDialog(d Dialog) string {
	inner := DialogWidth - 2
	content := styles.title.Render(d.Heading()) + "\n" + strings.TrimSpace(d.Body())
	return styles.dialog.Width(inner).Render(content)
}
