// Package store persists market data in a local SQLite database.
//
// The Store owns the database handle and its write-exclusion gate for the
// process lifetime; no other component touches storage directly. Writes
// (upserts, appends, deletes) serialize through one mutex, while reads run
// concurrently under WAL journaling with a multi-second busy timeout.
// Natural-key uniqueness constraints carry the dedup semantics: snapshots
// upsert in place per (item, world, day), sales insert-or-ignore on their
// full identifying tuple.
package store
