// Package domain defines the normalized rows the sync engine reads and writes.
//
// Rows fall into three groups:
//   - Central rows: owned by the central server, only ever pulled
//   - Remote rows: owned by one site, pulled on first sync and pushed afterwards
//   - Remote-central rows: site specific visibility records (name_store_join)
//
// Remote and remote-central rows are changelog tables: every mutating write
// appends a ChangelogRow whose cursor drives the push pipeline.
package domain
