// Package sqlite provides the default persistent index store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Collections and their passages live in one database file
// at <storage path>/index.db. Embeddings are stored as little-endian float32
// blobs and ranked by exact distance at query time, which suits a corpus of
// a few thousand passages.
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/. Each
// migration is a pair of .up.sql and .down.sql files.
//
// # Thread Safety
//
// The database runs in WAL mode, so queries read a consistent snapshot and
// never wait for a bulk Add transaction to commit.
package sqlite
