// Package sqlite provides a SQLite-based implementation of driven.SessionStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Sessions keep an insertion position per assistant kind so lists come back
// newest first and upserts do not reorder them. Messages are stored in their
// own table in session order; ephemeral playback URLs are never written.
//
// # Data Location
//
// By default, the database is stored at ~/.vfw/data/sessions.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Across processes the last writer wins.
package sqlite
