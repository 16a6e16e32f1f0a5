package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/tunebase/internal/formatter"
)

// BulkExportOpts contains configuration for per-artist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputDir  string           // Base output directory (default: catalog_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 5, max: 10)
	RateLimit  float64          // Exports dispatched per second (0: unlimited)
}

// ArtistExportJob is one artist's share of the catalog, queued for writing.
type ArtistExportJob struct {
	Name   string
	Base   string
	Export *formatter.Export
}

// ArtistExportResult is the outcome of writing one artist's export.
type ArtistExportResult struct {
	Name    string   `json:"name"`
	Tracks  int      `json:"tracks"`
	Files   []string `json:"files"`
	Success bool     `json:"success"`
	Error   error    `json:"-"`
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalArtists      int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []ArtistExportResult
}

type manifest struct {
	Format            formatter.Format `json:"format"`
	ExportedAt        time.Time        `json:"exportedAt"`
	TotalArtists      int              `json:"totalArtists"`
	SuccessfulExports int              `json:"successfulExports"`
	FailedExports     int              `json:"failedExports"`
	Results           []manifestEntry  `json:"results"`
}

type manifestEntry struct {
	ArtistExportResult
	Message string `json:"error,omitempty"`
}

// BulkExport snapshots the catalog and writes one export per artist with a worker pool.
//
// Individual failures are recorded in the result and the manifest; only setup, cancellation and manifest errors
// are returned.
func (e *CatalogEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("catalog_export_%d", e.now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	snapshot, err := e.Snapshot(ctx, prog, "Catalog")
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	parts := Partition(snapshot)
	result := &BulkExportResult{
		TotalArtists:    len(parts),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ArtistExportResult, 0, len(parts)),
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan ArtistExportJob, len(parts))
	results := make(chan ArtistExportResult, len(parts))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)

		used := make(map[string]int, len(parts))
		for i, part := range parts {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			jobs <- ArtistExportJob{Name: part.Title, Base: uniqueBase(used, part.Title), Export: part}
			e.sendProgress(prog, exportingArtistUpdate(i+1, len(parts), part.Title))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(parts), res.Name, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(parts), res.Name, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, opts.Format, snapshot.ExportedAt, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

// exportWorker writes exports from the jobs channel until it closes or ctx is done.
func (e *CatalogEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ArtistExportJob,
	results chan<- ArtistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportArtist(job, opts)
	}
}

// exportArtist writes a single artist export in the configured format.
func exportArtist(j ArtistExportJob, opts BulkExportOpts) ArtistExportResult {
	result := ArtistExportResult{
		Name:   j.Name,
		Tracks: len(j.Export.Tracks),
		Files:  []string{},
	}

	output := filepath.Join(opts.OutputDir, j.Base)
	switch opts.Format {
	case formatter.FormatText:
		output += "_tracks.txt"
	case formatter.FormatJSON:
		output += ".json"
	}

	files, err := formatter.Write(j.Export, opts.Format, output)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return result
	}

	result.Files = files
	result.Success = true
	return result
}

// uniqueBase returns the slug of name, suffixed with a counter when an earlier artist took it.
func uniqueBase(used map[string]int, name string) string {
	base := formatter.Slug(name)
	used[base]++
	if n := used[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}

func writeManifest(result *BulkExportResult, format formatter.Format, exportedAt time.Time, path string) error {
	m := manifest{
		Format:            format,
		ExportedAt:        exportedAt,
		TotalArtists:      result.TotalArtists,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Results:           make([]manifestEntry, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		entry := manifestEntry{ArtistExportResult: r}
		if r.Error != nil {
			entry.Message = r.Error.Error()
		}
		m.Results = append(m.Results, entry)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
