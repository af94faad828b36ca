// Package store provides SQLite-backed durable storage for ledgerstore.
//
// The store is an append-only content-addressed map:
//   - Entries: records keyed by their content address
//   - Actions: signed history elements (update, delete, validation)
//     appended against an entry address
//   - Meta: one-time values such as the space id and the agent seed
//
// # Guarantees
//
// Idempotent writes
//   - Every insert uses ON CONFLICT DO NOTHING on the address
//   - Re-writing identical content is a no-op that reports inserted=false
//
// Deterministic reads
//   - History queries use ORDER BY seq ASC, address ASC COLLATE BINARY
//
// Atomic updates
//   - An update's new entry and its action commit in one transaction
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Actions must target stored entries
package store
