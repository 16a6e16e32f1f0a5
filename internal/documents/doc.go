// Package documents implements the catalog store on MongoDB.
//
// Collections mirror the SQLite tables: artists, albums, tracks and users. References are stored as
// ObjectIDs and populated at read time with $lookup stages, so a deleted target simply yields an empty
// lookup and the reference reads back as dangling.
package documents
