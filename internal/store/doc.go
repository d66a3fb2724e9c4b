// Package store provides a SQLite-backed implementation of the log
// repository's filesystem capability.
//
// Directories and append-only files are rows instead of inodes, which lets a
// deployment keep all execution logs in a single database file:
//   - directories: every directory created by EnsureDir, ancestors included
//   - files:       one row per log file with its parent directory and name
//   - lines:       one row per appended line, ordered by seq
//
// Appends are single INSERT statements inside a transaction, so concurrent
// writers never interleave partial lines.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
