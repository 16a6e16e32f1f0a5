// Package repositories implements SQLite persistence for the catalog and user accounts.
//
// Each repository handles CRUD operations with atomic sequence generation for stable listing order.
// Deletes are hard deletes and never cascade: references to removed rows are left in place and
// populate as null when read back.
//
// Key Implementations:
//   - [ArtistRepository] : Artists with their album back-references
//   - [AlbumRepository] : Albums populated with their artist
//   - [TrackRepository] : Tracks populated with artist and album, plus the atomic favorite toggle
//   - [UserRepository] : Accounts with case-insensitive unique emails
//   - [Store] : Bundles the repositories as a [models.Store]
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
