// Package models defines domain entities and persistence interfaces for the tunebase music catalog.
//
// The package contains three categories of types:
//
// 1. Entities: documents persisted by a [Store]
//   - [Artist] : Performer with a genre and a back-reference set of album summaries
//   - [Album] : Release owned by exactly one artist
//   - [Track] : Song with optional artist/album references and a favorite flag
//   - [User] : Account holding an email and a password hash
//
// 2. References and summaries: [Ref] holds an id and, once populated, the referenced document.
// [ArtistSummary] and [AlbumSummary] are the shapes embedded by population.
//
// 3. Inputs: [ArtistInput], [AlbumInput], [TrackInput] for creation and the matching *Patch types for
// partial updates, plus [ListOptions] and [Page] for pagination.
//
// The Repository[T] interface defines standard CRUD operations implemented by both storage backends.
package models
