package ports

import (
	"context"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// OrderHistoryRepository defines the persistence contract for the append-only
// per-order audit trail.
type OrderHistoryRepository interface {
	// Append stores a new audit record. Records are never updated or
	// deleted afterwards.
	Append(ctx context.Context, record order.HistoryRecord) error

	// ListForOrder retrieves an order's audit records, oldest first.
	ListForOrder(ctx context.Context, orderID kernel.UUID) ([]order.HistoryRecord, error)
}
