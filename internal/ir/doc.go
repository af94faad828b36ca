// Package ir provides the value model and content addressing for ledgerstore.
//
// This package contains type definitions and pure functions only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key constraints:
//   - NO float types anywhere - use int64 for numbers
//   - Records are IRObjects; null is rejected on the way in
//   - All JSON tags use snake_case
//   - Addresses are SHA-256 over RFC 8785 canonical JSON with a domain prefix
//   - Logical sequence numbers only, never wall-clock timestamps
package ir
