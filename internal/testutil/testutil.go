// Package testutil provides shared helpers for unit tests:
//   - Miniredis helpers for Redis-backed components (miniredis.go)
//   - Temporary SQLite databases for the store (sqlite.go)
//
// None of the helpers require Docker.
package testutil
