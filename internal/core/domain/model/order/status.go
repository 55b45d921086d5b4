package order

import (
	"cafe/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. The lifecycle is a
// table-driven state machine: each state carries one capabilities row naming
// its successor and what is allowed while in it.
//
// State transitions:
//
//	PENDING ──> IN_PREPARATION ──> READY ──> DELIVERED
//	   │              │
//	   └──────────────┴──> CANCELLED
//
// DELIVERED and CANCELLED are terminal: no outgoing transitions.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order was just created and is still
	// editable by the customer.
	Pending

	// InPreparation means the kitchen has the order. Editing is closed.
	InPreparation

	// Ready means every station finished and the order awaits delivery.
	Ready

	// Delivered is the terminal happy-path status.
	Delivered

	// Cancelled is the terminal status for orders withdrawn before READY.
	Cancelled
)

// capabilities is one row of the state table: the successor state (Unknown if
// terminal) and what is permitted while in the state.
type capabilities struct {
	next      Status
	canCancel bool
	canEdit   bool
}

// getStateTable returns the full capability table of the lifecycle.
// The per-state side effects live in services.Lifecycle; this table only
// answers what is legal.
func getStateTable() map[Status]capabilities {
	return map[Status]capabilities{
		Pending:       {next: InPreparation, canCancel: true, canEdit: true},
		InPreparation: {next: Ready, canCancel: true, canEdit: false},
		Ready:         {next: Delivered, canCancel: false, canEdit: false},
		Delivered:     {next: Unknown, canCancel: false, canEdit: false},
		Cancelled:     {next: Unknown, canCancel: false, canEdit: false},
	}
}

// getStatusStrings returns a map of Status values to their wire names.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:       "UNKNOWN",
		Pending:       "PENDING",
		InPreparation: "IN_PREPARATION",
		Ready:         "READY",
		Delivered:     "DELIVERED",
		Cancelled:     "CANCELLED",
	}
}

// StatusFromString parses a wire name into a Status.
// Returns an error for names outside the lifecycle.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidError("status")
}

// Validate checks if the Status value is a real lifecycle state.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getStateTable()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the wire name of the status, e.g. "IN_PREPARATION".
// Safe to call on any value; invalid values read "UNKNOWN".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Next returns the successor state and whether one exists.
// Terminal states have no successor.
func (s Status) Next() (Status, bool) {
	row, ok := getStateTable()[s]
	if !ok || row.next == Unknown {
		return Unknown, false
	}
	return row.next, true
}

// CanAdvance reports whether the state has a successor.
func (s Status) CanAdvance() bool {
	_, ok := s.Next()
	return ok
}

// CanCancel reports whether an order may be cancelled from this state.
// Only PENDING and IN_PREPARATION orders are cancellable.
func (s Status) CanCancel() bool {
	return getStateTable()[s].canCancel
}

// CanEdit reports whether line items may be added, removed, or changed.
// Only PENDING orders are editable.
func (s Status) CanEdit() bool {
	return getStateTable()[s].canEdit
}

// IsTerminal reports whether the state has no outgoing transitions at all.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Advance returns the successor state.
//
// Returns an InvalidTransitionError when the state is terminal or invalid.
// This only computes the transition; the entry precondition and side effects
// are applied by Order.Advance and services.Lifecycle.
func (s Status) Advance() (Status, error) {
	next, ok := s.Next()
	if !ok {
		return Unknown, errs.NewInvalidTransitionError(s.String(), "advance")
	}
	return next, nil
}

// Cancel returns Cancelled if cancellation is legal from this state.
//
// Valid origins are PENDING and IN_PREPARATION; anything else returns an
// InvalidTransitionError.
func (s Status) Cancel() (Status, error) {
	if !s.CanCancel() {
		return Unknown, errs.NewInvalidTransitionError(s.String(), "cancel")
	}
	return Cancelled, nil
}
