package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/formatter"
	"github.com/desertthunder/tunebase/internal/shared"
	"github.com/desertthunder/tunebase/internal/tasks"
)

// Export writes the catalog in the requested format, to stdout or files.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	a, err := r.build(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	engine := tasks.NewCatalogEngine(a.catalog)
	output := cmd.String("output")

	if cmd.Bool("by-artist") {
		return r.exportByArtist(ctx, engine, format, output, cmd.Int("workers"), cmd.Float("rate"))
	}

	snapshot, err := engine.Snapshot(ctx, nil, "Catalog")
	if err != nil {
		return err
	}

	if output == "" {
		data, err := formatter.Render(snapshot, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	files, err := formatter.Write(snapshot, format, output)
	if err != nil {
		return err
	}
	for _, f := range files {
		r.writePlain("✓ %s\n", f)
	}
	return nil
}

func (r *Runner) exportByArtist(
	ctx context.Context, engine *tasks.CatalogEngine, format formatter.Format, dir string, workers int, rps float64,
) error {
	if rps < 0 {
		return fmt.Errorf("%w: --rate must not be negative", shared.ErrInvalidFlag)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
	}()

	result, err := engine.BulkExport(ctx, progress, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  dir,
		NumWorkers: workers,
		RateLimit:  rps,
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainHeader("Catalog Export")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Artists:   %d\n", result.TotalArtists)
	r.writePlain("Succeeded: %d\n", result.SuccessfulExports)
	r.writePlain("Failed:    %d\n", result.FailedExports)

	for _, res := range result.Results {
		if res.Error != nil {
			r.writePlain("  ✗ %s: %v\n", res.Name, res.Error)
		}
	}
	r.writePlainln("Manifest: %s", result.ManifestPath)
	return nil
}
