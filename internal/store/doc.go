// Package store provides SQLite-backed local storage for a sync site.
//
// The store holds:
//   - Domain tables: one table per domain.Table, written with
//     replace-on-conflict upserts keyed by id
//   - Changelog: one entry per write to a changelog table, with a cursor
//     that strictly increases and is never reused
//   - Sync buffer: inbound legacy records waiting for integration
//   - Sync log: one row per sync attempt, never deleted
//   - Key-value settings: site identity and sync cursors
//
// # Writes and the changelog
//
// Writes made through a Connection to a changelog table append a changelog
// entry in the same statement sequence. Writes made by pull integration
// (SyncUpsert, SyncDelete) mark their entries as sync updates so they are
// never pushed back to the central server.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
//   - A single open connection: SQLite has one writer
package store
