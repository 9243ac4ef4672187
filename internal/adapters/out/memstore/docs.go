// Package memstore provides in-memory implementations of the persistence
// ports. A single mutex per store stands in for the database's atomic
// conditional writes, so the conflict semantics (first claim wins,
// single-active-order, conditional status updates) match the postgres
// adapter exactly. Used by tests and for dependency-free local runs.
package memstore
