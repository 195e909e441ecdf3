// Package synchroniser runs sync passes between this site and the central
// server.
//
// A run pulls remote records into the sync buffer, integrates them through
// the translator registry and pushes local changes. Every run is recorded
// in the sync log with the time each phase started and finished.
//
// Only one run executes at a time per Synchroniser. Storage writes for one
// buffered record happen in a single transaction, so a failed run leaves
// the buffer in a state the next run can resume from.
package synchroniser
