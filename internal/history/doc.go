// Package history provides SQLite-backed storage for refinement runs.
//
// The database holds:
//   - Runs: one row per verification run (codec format/kind, input, threshold)
//   - Iterations: every size observation made by a refine.Monitor
//   - Precisions: archived serialized precisions, keyed by content hash
//
// # Ordering
//
// Iterations are read back ORDER BY iteration ASC. Runs are read back
// ORDER BY started_at ASC, id ASC COLLATE BINARY so listings are stable
// across identical timestamps.
//
// # Identity
//
// Archived precisions are content-addressed through ir.PrecisionHash.
// Archiving the same document twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Iterations and archived precisions must name a known run
package history
