// Package repositories implements SQLite persistence for the movie list.
//
// [MovieRepository] is the only repository: one table, integer primary keys assigned by SQLite,
// hard deletes, and a UNIQUE title constraint surfaced as [shared.ErrDuplicateTitle].
//
// Nullable columns are scanned through the sql.Null* types and mapped to nil pointers on [models.Movie].
// Writes that match no row return [shared.ErrNotFound] so the web layer can answer 404.
package repositories
