package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
	th "github.com/desertthunder/tunebase/internal/testing"
)

func testExport() *Export {
	artist := &models.Artist{
		ID:     "64b7f0c2a1b2c3d4e5f60001",
		Name:   "Radiohead",
		Genre:  "Alternative",
		Albums: []models.AlbumSummary{{ID: "64b7f0c2a1b2c3d4e5f60002", Title: "OK Computer", ReleaseYear: 1997}},
	}
	album := &models.Album{
		ID:          "64b7f0c2a1b2c3d4e5f60002",
		Title:       "OK Computer",
		ReleaseYear: 1997,
		Genre:       "Alternative",
	}
	album.Artist.Resolve(&models.ArtistSummary{ID: artist.ID, Name: artist.Name, Genre: artist.Genre})

	paranoid := &models.Track{
		ID:         "64b7f0c2a1b2c3d4e5f60003",
		Title:      "Paranoid Android",
		Duration:   387,
		CoverImage: "https://example.com/okc.jpg",
		Favorite:   true,
	}
	paranoid.Artist.Resolve(&models.ArtistSummary{ID: artist.ID, Name: artist.Name})
	paranoid.Album.Resolve(&models.AlbumSummary{ID: album.ID, Title: album.Title, ReleaseYear: 1997})

	loose := &models.Track{
		ID:       "64b7f0c2a1b2c3d4e5f60004",
		Title:    "Untitled, Live",
		Duration: 180,
	}

	return &Export{
		Title:      "Test Catalog",
		ExportedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Artists:    []*models.Artist{artist},
		Albums:     []*models.Album{album},
		Tracks:     []*models.Track{paranoid, loose},
	}
}

func TestExporters(t *testing.T) {
	export := testExport()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Artist,Album,Duration,Favorite,Cover Image") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "64b7f0c2a1b2c3d4e5f60003,Paranoid Android,Radiohead,OK Computer,387,true,https://example.com/okc.jpg") {
			t.Errorf("CSV missing populated track row, got: %s", output)
		}
		if !strings.Contains(output, `"Untitled, Live",,,180,false,`) {
			t.Errorf("CSV should quote commas and leave missing references empty, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(export)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		for _, want := range []string{
			"# Test Catalog",
			"**Exported**: 2024-03-01T12:00:00Z",
			"**Artists**: 1",
			"**Albums**: 1",
			"**Tracks**: 2 (9:27)",
			"**Favorites**: 1",
			"## Artists",
			"- Radiohead (Alternative)",
			"  - OK Computer (1997)",
			"## Tracks",
			"1. Radiohead - Paranoid Android (OK Computer) [6:27] ★",
			"2. Unknown Artist - Untitled, Live [3:00]\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.HasPrefix(output, "Catalog: Test Catalog\n") {
			t.Errorf("Text missing title line, got: %s", output)
		}
		if !strings.Contains(output, "Tracks: 2\n\n") {
			t.Errorf("Text missing track count")
		}
		if !strings.Contains(output, "1. Radiohead - Paranoid Android\n2. Unknown Artist - Untitled, Live\n") {
			t.Errorf("Text missing track listing, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(export)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		tracks := decoded["tracks"].([]any)
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		first := tracks[0].(map[string]any)
		if artist, ok := first["artist"].(map[string]any); !ok || artist["name"] != "Radiohead" {
			t.Errorf("expected populated artist, got %v", first["artist"])
		}
		if second := tracks[1].(map[string]any); second["artist"] != nil {
			t.Errorf("expected null artist, got %v", second["artist"])
		}
	})

	t.Run("Metadata", func(t *testing.T) {
		meta := export.Metadata()
		if meta.Tracks != 2 || meta.Favorites != 1 || meta.TotalDuration != "9:27" {
			t.Errorf("unexpected metadata: %+v", meta)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"text", FormatText, false},
		{"txt", FormatText, false},
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Radiohead", "radiohead"},
		{"Sigur Rós", "sigur-rós"},
		{"  AC/DC  ", "ac-dc"},
		{"!!!", "catalog"},
		{"", "catalog"},
	}

	for _, tt := range tests {
		if got := Slug(tt.input); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFileExports(t *testing.T) {
	export := testExport()

	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			result, err := WriteCSVExport(export, "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.TracksFile != "test-catalog_tracks.csv" {
				t.Errorf("Expected tracks file 'test-catalog_tracks.csv', got '%s'", result.TracksFile)
			}
			if result.MetadataFile != "test-catalog_metadata.json" {
				t.Errorf("Expected metadata file 'test-catalog_metadata.json', got '%s'", result.MetadataFile)
			}

			th.AssertFileExists(t, result.TracksFile)
			th.AssertFileExists(t, result.MetadataFile)

			metadataContent := th.MustReadFile(t, result.MetadataFile)
			if !strings.Contains(metadataContent, `"title": "Test Catalog"`) || !strings.Contains(metadataContent, `"favorites": 1`) {
				t.Errorf("Metadata JSON missing expected fields, got: %s", metadataContent)
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			dir := t.TempDir()
			base := filepath.Join(dir, "custom_export")

			result, err := WriteCSVExport(export, base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.TracksFile != base+"_tracks.csv" {
				t.Errorf("Expected '%s_tracks.csv', got '%s'", base, result.TracksFile)
			}
			th.AssertFileExists(t, result.TracksFile)
			th.AssertFileExists(t, result.MetadataFile)
		})

		t.Run("MissingDirectory", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "missing", "export")
			if _, err := WriteCSVExport(export, base); err == nil {
				t.Error("expected error writing into a missing directory")
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		th.MustChdir(t, t.TempDir())

		result, err := WriteMarkdownExport(export, "")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if result.Directory != "test-catalog" {
			t.Errorf("Expected directory 'test-catalog', got '%s'", result.Directory)
		}
		th.AssertDirExists(t, result.Directory)

		readme := filepath.Join(result.Directory, "README.md")
		th.AssertFileExists(t, readme)
		if !strings.Contains(th.MustReadFile(t, readme), "# Test Catalog") {
			t.Errorf("Markdown missing title")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		th.MustChdir(t, t.TempDir())

		path, err := WriteTextExport(export, "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if path != "test-catalog_tracks.txt" {
			t.Errorf("Expected 'test-catalog_tracks.txt', got '%s'", path)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("Write", func(t *testing.T) {
		dir := t.TempDir()

		tests := []struct {
			format Format
			output string
			files  int
		}{
			{FormatCSV, filepath.Join(dir, "all"), 2},
			{FormatMarkdown, filepath.Join(dir, "md"), 1},
			{FormatText, filepath.Join(dir, "all.txt"), 1},
			{FormatJSON, filepath.Join(dir, "all.json"), 1},
		}

		for _, tt := range tests {
			t.Run(string(tt.format), func(t *testing.T) {
				files, err := Write(export, tt.format, tt.output)
				if err != nil {
					t.Fatalf("Write failed: %v", err)
				}
				if len(files) != tt.files {
					t.Fatalf("expected %d files, got %v", tt.files, files)
				}
				for _, f := range files {
					th.AssertFileExists(t, f)
				}
			})
		}

		if _, err := Write(export, Format("xml"), filepath.Join(dir, "x")); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestRender(t *testing.T) {
	export := testExport()

	for _, format := range []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON} {
		data, err := Render(export, format)
		if err != nil {
			t.Errorf("Render(%s) failed: %v", format, err)
			continue
		}
		if !strings.Contains(string(data), "Paranoid Android") {
			t.Errorf("Render(%s) missing track title", format)
		}
	}
}
