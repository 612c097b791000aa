// Package sqlite provides the persistent vector store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Every indexed chunk is one row of the entries table with
// its vector encoded as little-endian float32s. Similarity search is an exact
// cosine scan over all rows.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files. The store_meta table records the vector dimensionality and the
// embedding model the store was created with; reopening the store with a
// different embedder is a configuration error.
//
// # Data Location
//
// The database lives at <store dir>/ragent.db, by default ragent_db/ragent.db.
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on database-level locking
// provided by SQLite in WAL mode.
package sqlite
