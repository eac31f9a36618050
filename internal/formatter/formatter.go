// package formatter provides functions to export favorites to various formats (JSON, CSV, Markdown, plain text)
// and to read them back for import.
package formatter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
)

// Supported export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

var csvHeaders = []string{"ID", "Title", "Genre", "Director", "Featured"}

// DetectFormat guesses a format from a file extension, defaulting to JSON.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt":
		return FormatText
	default:
		return FormatJSON
	}
}

// ExportToJSON converts a FavoritesExport to indented JSON.
func ExportToJSON(export *models.FavoritesExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ExportToCSV converts a FavoritesExport to CSV format with columns: ID, Title, Genre, Director, Featured
func ExportToCSV(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			movie.ID,
			movie.Title,
			movie.Genre.Name,
			movie.Director.Name,
			strconv.FormatBool(movie.Featured),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FavoritesExport to Markdown. posters maps movie IDs to local image paths.
func ExportToMarkdown(export *models.FavoritesExport, posters map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s's favorites\n\n", export.Username))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n", len(export.Movies)))
	if !export.ExportedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt.Format(time.DateOnly)))
	}
	buf.WriteString("\n")

	for i, movie := range export.Movies {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, movie.Title))
		if poster := posters[movie.ID]; poster != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", movie.Title, poster))
		}
		buf.WriteString(fmt.Sprintf("- **ID**: `%s`\n", movie.ID))
		buf.WriteString(fmt.Sprintf("- **Genre**: %s\n", movie.Genre.Name))
		buf.WriteString(fmt.Sprintf("- **Director**: %s\n\n", movie.Director.Name))
		if movie.Description != "" {
			buf.WriteString(fmt.Sprintf("%s\n\n", movie.Description))
		}
	}

	if len(export.Unmatched) > 0 {
		buf.WriteString(markdownUnknownHeading + "\n\n")
		for _, id := range export.Unmatched {
			buf.WriteString(fmt.Sprintf("- `%s`\n", id))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FavoritesExport to plain text format, one title per line after a short header.
func ExportToText(export *models.FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Favorites: %s\n", export.Username))
	buf.WriteString(fmt.Sprintf("# Movies: %d\n\n", len(export.Movies)))

	for _, movie := range export.Movies {
		buf.WriteString(movie.Title + "\n")
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   []string
	Warnings  []string // poster downloads that failed; the export still succeeds
}

// WriteMarkdownExport exports favorites to {dir}/README.md.
//
// When withPosters is set, each movie's ImagePath is downloaded to {dir}/posters/{id}.jpg.
func WriteMarkdownExport(export *models.FavoritesExport, outputDir string, withPosters bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "favorites"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	posters := map[string]string{}
	if withPosters {
		posterDir := filepath.Join(outputDir, "posters")
		for _, movie := range export.Movies {
			if movie.ImagePath == "" {
				continue
			}
			name, ok := posterName(movie.ID)
			if !ok {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: invalid movie id %q for poster file", movie.Title, movie.ID))
				continue
			}
			if err := os.MkdirAll(posterDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}

			imageData, err := DownloadImage(movie.ImagePath)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", movie.Title, err))
				continue
			}

			path := filepath.Join(posterDir, name)
			if err := os.WriteFile(path, imageData, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", movie.Title, err))
				continue
			}
			posters[movie.ID] = "posters/" + name
			result.Posters = append(result.Posters, path)
			result.Files = append(result.Files, path)
		}
	}

	mdData, err := ExportToMarkdown(export, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// posterName returns the poster file name for a movie ID. IDs that are not a single path element are rejected.
func posterName(id string) (string, bool) {
	if id == "" || id == "." || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return "", false
	}
	return id + ".jpg", true
}

// WriteExport renders export in format and writes it to path. Markdown treats path as a directory.
//
// Returns the files written.
func WriteExport(export *models.FavoritesExport, format, path string, withPosters bool) ([]string, error) {
	if format == FormatMarkdown {
		res, err := WriteMarkdownExport(export, path, withPosters)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = ExportToCSV(export)
	case FormatText:
		data, err = ExportToText(export)
	case FormatJSON, "":
		data, err = ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return []string{path}, nil
}

// ParseImport reads movie references (IDs or titles) from data written by the exporters or by hand.
//
// JSON accepts a [models.FavoritesExport] or an array of strings. CSV uses the ID column when present,
// then the Title column, then the first column. Text takes one entry per line and skips # comments.
// Markdown reads the ID lines written by [ExportToMarkdown].
func ParseImport(data []byte, format string) ([]string, error) {
	switch format {
	case FormatJSON, "":
		return parseJSONImport(data)
	case FormatCSV:
		return parseCSVImport(data)
	case FormatText:
		return parseTextImport(data)
	case FormatMarkdown:
		return parseMarkdownImport(data), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

func parseJSONImport(data []byte) ([]string, error) {
	var refs []string
	if err := json.Unmarshal(data, &refs); err == nil {
		return refs, nil
	}

	var export models.FavoritesExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: not a favorites export or list of strings: %v", shared.ErrInvalidInput, err)
	}

	refs = make([]string, 0, len(export.Movies))
	for _, m := range export.Movies {
		if m.ID != "" {
			refs = append(refs, m.ID)
		} else if m.Title != "" {
			refs = append(refs, m.Title)
		}
	}
	return refs, nil
}

func parseCSVImport(data []byte) ([]string, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid CSV: %v", shared.ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return []string{}, nil
	}

	col, start := 0, 0
	for i, h := range records[0] {
		if strings.EqualFold(strings.TrimSpace(h), "ID") {
			col, start = i, 1
			break
		}
		if strings.EqualFold(strings.TrimSpace(h), "Title") {
			col, start = i, 1
		}
	}

	refs := []string{}
	for _, rec := range records[start:] {
		if col < len(rec) && strings.TrimSpace(rec[col]) != "" {
			refs = append(refs, strings.TrimSpace(rec[col]))
		}
	}
	return refs, nil
}

func parseTextImport(data []byte) ([]string, error) {
	refs := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, strings.TrimPrefix(line, "- "))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}
	return refs, nil
}

const (
	markdownIDPrefix       = "- **ID**: `"
	markdownUnknownHeading = "## Unknown movies"
)

func parseMarkdownImport(data []byte) []string {
	refs := []string{}
	unknown := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "## ") {
			unknown = line == markdownUnknownHeading
			continue
		}

		var id string
		switch {
		case strings.HasPrefix(line, markdownIDPrefix):
			id = strings.TrimSuffix(strings.TrimPrefix(line, markdownIDPrefix), "`")
		case unknown && strings.HasPrefix(line, "- `"):
			id = strings.TrimSuffix(strings.TrimPrefix(line, "- `"), "`")
		}
		if id != "" {
			refs = append(refs, id)
		}
	}
	return refs
}
