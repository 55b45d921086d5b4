package ports

import (
	"context"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/station"
)

// StationRepository defines the persistence contract for station aggregates.
type StationRepository interface {
	// Add persists a new station to storage.
	Add(ctx context.Context, aggregate *station.Station) error

	// Update persists changes to an existing station.
	Update(ctx context.Context, aggregate *station.Station) error

	// Get retrieves a station by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*station.Station, error)

	// GetActiveByType retrieves the active station for the given type.
	// Returns an ObjectNotFoundError when no active station of that type
	// exists; routing maps that to a StationNotFoundError.
	GetActiveByType(ctx context.Context, stationType station.Type) (*station.Station, error)

	// GetByType retrieves the station for the given type regardless of its
	// active flag. Completion still works on a deactivated station.
	GetByType(ctx context.Context, stationType station.Type) (*station.Station, error)

	// GetAll retrieves every station regardless of its active flag.
	GetAll(ctx context.Context) ([]*station.Station, error)
}

// StationQueueRepository defines the persistence contract for the per-station
// work queues produced by routing.
type StationQueueRepository interface {
	// Add persists a new queue entry.
	Add(ctx context.Context, entry *station.QueueEntry) error

	// Update persists changes to an existing queue entry.
	Update(ctx context.Context, entry *station.QueueEntry) error

	// GetIncomplete retrieves the pending entry for an order on a station,
	// if any. Routing dedupes on this key; returns an ObjectNotFoundError
	// when no pending entry exists.
	GetIncomplete(ctx context.Context, stationID, orderID kernel.UUID) (*station.QueueEntry, error)

	// GetPendingForStation retrieves a station's pending entries in
	// assignment order, oldest first.
	GetPendingForStation(ctx context.Context, stationID kernel.UUID) ([]*station.QueueEntry, error)

	// CountIncompleteForOrder counts an order's entries that are still
	// pending across all stations.
	CountIncompleteForOrder(ctx context.Context, orderID kernel.UUID) (int, error)

	// CountCompletedForStationSince counts a station's entries completed at
	// or after the given time. Used by the station status projection.
	CountCompletedForStationSince(ctx context.Context, stationID kernel.UUID, since time.Time) (int, error)

	// DeleteIncompleteForOrder removes an order's pending entries from every
	// station queue. Called when the order is cancelled; completed entries
	// are kept for the record.
	DeleteIncompleteForOrder(ctx context.Context, orderID kernel.UUID) error
}
