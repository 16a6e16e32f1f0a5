// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

const unknownArtist = "Unknown Artist"

// ParseFormat resolves a format name, accepting "md" and "text" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json", "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (csv, markdown, txt, json)", shared.ErrInvalidFlag, s)
	}
}

// Export is a snapshot of the catalog, or of one artist's share of it.
type Export struct {
	Title      string           `json:"title"`
	ExportedAt time.Time        `json:"exportedAt"`
	Artists    []*models.Artist `json:"artists"`
	Albums     []*models.Album  `json:"albums"`
	Tracks     []*models.Track  `json:"tracks"`
}

// Metadata summarizes an export without its listings.
type Metadata struct {
	Title         string    `json:"title"`
	ExportedAt    time.Time `json:"exportedAt"`
	Artists       int       `json:"artists"`
	Albums        int       `json:"albums"`
	Tracks        int       `json:"tracks"`
	Favorites     int       `json:"favorites"`
	TotalDuration string    `json:"totalDuration"`
}

// Metadata counts the export's contents.
func (e *Export) Metadata() Metadata {
	m := Metadata{
		Title:      e.Title,
		ExportedAt: e.ExportedAt,
		Artists:    len(e.Artists),
		Albums:     len(e.Albums),
		Tracks:     len(e.Tracks),
	}

	var seconds float64
	for _, t := range e.Tracks {
		seconds += t.Duration
		if t.Favorite {
			m.Favorites++
		}
	}
	m.TotalDuration = shared.FormatDuration(seconds)
	return m
}

// ExportToCSV converts an Export's tracks to CSV with columns: ID, Title, Artist, Album, Duration, Favorite, Cover Image
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "Favorite", "Cover Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.ID,
			track.Title,
			artistName(track),
			albumTitle(track),
			strconv.FormatFloat(track.Duration, 'f', -1, 64),
			strconv.FormatBool(track.Favorite),
			track.CoverImage,
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

// ExportToMarkdown converts an Export to a Markdown document listing artists with their albums, then tracks.
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	meta := export.Metadata()

	fmt.Fprintf(&buf, "# %s\n\n", export.Title)
	fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "**Artists**: %d\n", meta.Artists)
	fmt.Fprintf(&buf, "**Albums**: %d\n", meta.Albums)
	fmt.Fprintf(&buf, "**Tracks**: %d (%s)\n", meta.Tracks, meta.TotalDuration)
	fmt.Fprintf(&buf, "**Favorites**: %d\n\n", meta.Favorites)

	if len(export.Artists) > 0 {
		buf.WriteString("## Artists\n\n")
		for _, artist := range export.Artists {
			fmt.Fprintf(&buf, "- %s (%s)\n", artist.Name, artist.Genre)
			for _, album := range artist.Albums {
				fmt.Fprintf(&buf, "  - %s (%d)\n", album.Title, album.ReleaseYear)
			}
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Tracks\n\n")
	for i, track := range export.Tracks {
		albumPart := ""
		if title := albumTitle(track); title != "" {
			albumPart = fmt.Sprintf(" (%s)", title)
		}
		favorite := ""
		if track.Favorite {
			favorite = " ★"
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]%s\n",
			i+1, displayArtist(track), track.Title, albumPart, shared.FormatDuration(track.Duration), favorite)
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Catalog: %s\n", export.Title)
	fmt.Fprintf(&buf, "Artists: %d\n", len(export.Artists))
	fmt.Fprintf(&buf, "Albums: %d\n", len(export.Albums))
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.Tracks))

	for i, track := range export.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, displayArtist(track), track.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the whole Export as indented JSON.
func ExportToJSON(export *Export) ([]byte, error) {
	return json.MarshalIndent(export, "", "  ")
}

// ToMetadataJSON generates a JSON representation of the export summary (without listings)
func ToMetadataJSON(export *Export) ([]byte, error) {
	return json.MarshalIndent(export.Metadata(), "", "  ")
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports tracks to CSV format with accompanying metadata JSON file.
//
// Defaults to the slug of the export title as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(export *Export, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = Slug(export.Title)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports to Markdown format in a dedicated directory.
//
// Directory name defaults to the slug of the export title.
// Creates a directory structure: {dir}/README.md
func WriteMarkdownExport(export *Export, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = Slug(export.Title)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &MarkdownExportResult{Directory: outputDir, Files: []string{mdFile}}, nil
}

// WriteTextExport exports to plain text format.
//
// Defaults to {slug}_tracks.txt as the filename.
func WriteTextExport(export *Export, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_tracks.txt", Slug(export.Title))
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport exports the full snapshot as JSON. Defaults to {slug}.json.
func WriteJSONExport(export *Export, path string) (string, error) {
	if path == "" {
		path = Slug(export.Title) + ".json"
	}

	data, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}

	return path, nil
}

// Write exports in the given format and returns the created files.
//
// For CSV, output is the base path; for Markdown, the directory; otherwise the file path.
func Write(export *Export, format Format, output string) ([]string, error) {
	switch format {
	case FormatCSV:
		res, err := WriteCSVExport(export, output)
		if err != nil {
			return nil, err
		}
		return []string{res.TracksFile, res.MetadataFile}, nil
	case FormatMarkdown:
		res, err := WriteMarkdownExport(export, output)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	case FormatText:
		path, err := WriteTextExport(export, output)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatJSON:
		path, err := WriteJSONExport(export, output)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// Render returns the export in the given format as a single document. CSV renders tracks only.
func Render(export *Export, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// Slug lower-cases s and joins its letters and digits with dashes, for use in file names.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}

	if b.Len() == 0 {
		return "catalog"
	}
	return b.String()
}

func artistName(t *models.Track) string {
	if t.Artist.Doc != nil {
		return t.Artist.Doc.Name
	}
	return ""
}

func albumTitle(t *models.Track) string {
	if t.Album.Doc != nil {
		return t.Album.Doc.Title
	}
	return ""
}

func displayArtist(t *models.Track) string {
	if name := artistName(t); name != "" {
		return name
	}
	return unknownArtist
}
