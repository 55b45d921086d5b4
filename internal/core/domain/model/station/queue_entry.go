package station

import (
	"errors"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

// Domain errors for queue entry operations.
var (
	// ErrQueueEntryIsNotConstructed is returned when using an improperly initialized QueueEntry.
	ErrQueueEntryIsNotConstructed = errors.New("QueueEntry must be created via NewQueueEntry constructor")
	// ErrEntryAlreadyCompleted is returned when completing an entry twice.
	ErrEntryAlreadyCompleted = errs.NewValueIsInvalidError("queue entry is already completed")
)

// QueueEntry is one unit of pending work on a station: an order waiting for
// that station's part of the preparation. There is at most one incomplete
// entry per (station, order) pair; routing dedupes on that key. Entries are
// created by routing, completed by station staff, and deleted when their
// order is cancelled.
type QueueEntry struct {
	id          kernel.UUID
	stationID   kernel.UUID
	orderID     kernel.UUID
	assignedAt  time.Time
	completedAt *time.Time

	guard guard.ConstructorGuard
}

// NewQueueEntry creates a pending queue entry for a routed order.
func NewQueueEntry(
	id kernel.UUID,
	stationID kernel.UUID,
	orderID kernel.UUID,
	assignedAt time.Time,
) (*QueueEntry, error) {
	entry := &QueueEntry{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		entry.setID(id),
		entry.setStationID(stationID),
		entry.setOrderID(orderID),
		entry.setAssignedAt(assignedAt),
	); err != nil {
		return nil, err
	}

	return entry, nil
}

// RestoreQueueEntry reconstructs a queue entry from persistent storage.
func RestoreQueueEntry(
	id kernel.UUID,
	stationID kernel.UUID,
	orderID kernel.UUID,
	assignedAt time.Time,
	completedAt *time.Time,
) (*QueueEntry, error) {
	entry := &QueueEntry{
		completedAt: completedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		entry.setID(id),
		entry.setStationID(stationID),
		entry.setOrderID(orderID),
		entry.setAssignedAt(assignedAt),
	); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the QueueEntry was properly constructed.
func (e *QueueEntry) Validate() error {
	if e == nil {
		return ErrQueueEntryIsNotConstructed
	}
	return e.guard.Validate(ErrQueueEntryIsNotConstructed)
}

// ID returns the entry's unique identifier.
func (e *QueueEntry) ID() kernel.UUID {
	return e.id
}

// StationID returns the station the entry is queued on.
func (e *QueueEntry) StationID() kernel.UUID {
	return e.stationID
}

// OrderID returns the order waiting on the station.
func (e *QueueEntry) OrderID() kernel.UUID {
	return e.orderID
}

// AssignedAt returns when routing placed the entry on the station.
func (e *QueueEntry) AssignedAt() time.Time {
	return e.assignedAt
}

// CompletedAt returns when the entry was completed, nil while pending.
func (e *QueueEntry) CompletedAt() *time.Time {
	return e.completedAt
}

// IsCompleted reports whether the entry has been prepared.
func (e *QueueEntry) IsCompleted() bool {
	return e.completedAt != nil
}

// WaitingTime returns how long the entry has been (or was) queued.
func (e *QueueEntry) WaitingTime(now time.Time) time.Duration {
	if e.completedAt != nil {
		return e.completedAt.Sub(e.assignedAt)
	}
	return now.Sub(e.assignedAt)
}

// Complete marks the entry as prepared. Completing twice is an error.
func (e *QueueEntry) Complete(now time.Time) error {
	if e.IsCompleted() {
		return ErrEntryAlreadyCompleted
	}

	t := now
	e.completedAt = &t
	return nil
}

func (e *QueueEntry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *QueueEntry) setStationID(stationID kernel.UUID) error {
	if err := stationID.Validate(); err != nil {
		return err
	}
	e.stationID = stationID
	return nil
}

func (e *QueueEntry) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	e.orderID = orderID
	return nil
}

func (e *QueueEntry) setAssignedAt(assignedAt time.Time) error {
	if assignedAt.IsZero() {
		return errs.NewValueIsRequiredError("assignedAt")
	}
	e.assignedAt = assignedAt
	return nil
}
