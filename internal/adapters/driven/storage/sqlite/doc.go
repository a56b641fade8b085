// Package sqlite provides the local corpus store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Embeddings are stored as TEXT in the "[x,y,...]" form and topics as a JSON
// array, so rows stay readable from the sqlite3 shell.
//
// # Data Location
//
// By default, the database is stored at ~/.microverse/data/corpus.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
