// Package order contains the Order aggregate and its satellites: the
// lifecycle Status table, line items with add-time price capture, state
// mementos with integrity checksums, and the audit-trail record types.
//
// The aggregate enforces the structural invariants (derived total, editability
// gating, once-only timestamps). Orchestration concerns, such as persistence
// order, notification fan-out and snapshot capture around transitions, live
// in the lifecycle service, not here.
package order
