// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple port interfaces
// through a single database connection:
//
//   - DocumentStore: document graph persistence (documents, chunks, entities, tags)
//   - StatsStore: materialized aggregate projections
//   - LexicalIndex: full-text search over chunk content via FTS5 with BM25 ranking
//   - VectorIndex: cosine similarity search over chunk embeddings
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.dossier/data/dossier.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
