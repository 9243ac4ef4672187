// Package order contains the Order aggregate and its lifecycle state machine.
// The aggregate enforces per-record invariants (status transitions, courier
// ownership, exactly-once timestamps); cross-record rules such as
// single-active-order-per-requester and first-writer-wins claiming are
// enforced by the store's conditional writes.
package order
