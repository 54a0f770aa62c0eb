// Package store provides SQLite-backed storage for the requirement set.
//
// The store holds one table, requirements, with the priority column
// constrained to the uint8 scale [0,255]. It implements the rebalancing
// engine's Repository interface: typed reads, parameterized writes, and
// a scoped transaction entry point (WithTx) that commits on success and
// rolls back on any error, so the engine's all-or-nothing contract is
// structural rather than conventional.
//
// # Critical patterns
//
//   - Deterministic query results: every list query orders by
//     priority ASC, id ASC COLLATE BINARY, so rebalancing runs are
//     reproducible across processes.
//   - Parameterized queries only: requirement IDs are never
//     interpolated into SQL text.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
