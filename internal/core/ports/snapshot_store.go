package ports

import (
	"context"
	"time"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// SnapshotStore keeps per-order memento histories with a bounded depth.
// When an order's history is full, saving evicts its oldest memento.
type SnapshotStore interface {
	// Save stores a memento under its order and tag. Saving an existing tag
	// overwrites that entry in place.
	Save(ctx context.Context, memento *order.Memento) error

	// Restore retrieves the memento stored under the given tag.
	// Returns an ObjectNotFoundError for an unknown tag.
	Restore(ctx context.Context, orderID kernel.UUID, tag string) (*order.Memento, error)

	// Latest retrieves the most recently saved memento for the order.
	Latest(ctx context.Context, orderID kernel.UUID) (*order.Memento, error)

	// History lists the order's memento summaries, oldest first.
	History(ctx context.Context, orderID kernel.UUID) ([]order.MementoSummary, error)

	// Prune drops every memento taken before the cutoff and returns how
	// many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}
