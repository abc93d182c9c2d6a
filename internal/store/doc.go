// Package store manages the SQLite stores of an export run.
//
// Two pragma profiles cover the lifecycle:
//
// Staging (write-optimized; crash safety deliberately off, a torn staging
// database is discarded and rebuilt, never repaired):
//   - journal_mode=OFF: no rollback journal
//   - synchronous=OFF: no fsync barriers
//   - cache_size=-65536: 64 MiB page cache
//   - mmap_size=268435456: 256 MiB memory-mapped I/O
//   - locking_mode=EXCLUSIVE: single-process file lock
//   - foreign_keys=OFF: references surface in the post-load check, not
//     per row
//
// Read-optimized (the published artifact):
//   - journal_mode=WAL: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// The switcher operations move between the two: CompactTo clones staged
// data into a minimal-size artifact via VACUUM INTO, and FinalizeForReads
// stamps the artifact with the read profile. WAL mode is persistent in
// the database file, so finalizing once covers every later reader.
package store
