// Package store provides SQLite-backed compilation history.
//
// Every compilation the service performs can be appended to the
// compilations table:
//   - id: UUIDv7 record identifier, time-sortable
//   - seq: autoincrement logical clock, the only ordering key
//   - graph_hash: ir.GraphHash of the compiled graph
//   - status / error_kind: "ok", or "error" with the CompileError kind
//   - code: the emitted program, or the cycle marker on failure
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - user_version: Incremental migrations
//
// Queries that return several rows order by seq so listings are stable
// regardless of wall time.
package store
