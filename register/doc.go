// Package register provides the core types for the book registration
// lifecycle: the book model, the reading-status state machine, and the
// immutable partial-update request with explicit field-presence
// semantics.
//
// The package is pure and storage-free. The PostgreSQL lifecycle
// controller that persists books and maintains the barcode ledger lives
// in the postgresengine subpackage.
//
// Reading-status state machine: in_progress is the implicit initial
// state at registration. Transitions to finished or abandoned are
// terminal with respect to barcode ownership - every linked code is
// unconditionally released - but not terminal with respect to further
// field edits. Nothing here prevents a transition back from a terminal
// state; that policy, if desired, belongs to the caller.
package register
