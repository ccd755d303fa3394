// Package updater drives the "refresh all tracked items" workflow.
//
// A run chunks the tracked set into batches, fetches each batch through the
// rate-limited API client from a bounded worker pool, and writes snapshots
// and sales through the store. Failures are isolated per item: one bad item
// never aborts the run, only caller cancellation does.
package updater
