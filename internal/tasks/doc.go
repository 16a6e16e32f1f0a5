// Package tasks runs long catalog operations with real-time progress reporting.
//
// # Core Operations
//
// [CatalogEngine] reads the catalog through a [CatalogReader] (normally [services.Catalog]):
//
//  1. [CatalogEngine.Snapshot] : Read every artist, album and track into one [formatter.Export]
//
//  2. [CatalogEngine.BulkExport] : Split a snapshot by artist and write one export per artist
//     - Uses a worker pool with an optional dispatch rate limit
//     - Tracks with no artist are collected under "Unassigned"
//     - Writes export_manifest.json summarizing every result
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
