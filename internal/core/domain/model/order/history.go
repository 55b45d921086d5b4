package order

import (
	"time"

	"cafe/internal/core/domain/model/kernel"
)

// HistoryAction classifies an audit-trail record.
type HistoryAction string

const (
	HistoryActionCreate         HistoryAction = "CREATE"
	HistoryActionStatusChange   HistoryAction = "STATUS_CHANGE"
	HistoryActionCancel         HistoryAction = "CANCEL"
	HistoryActionAddItem        HistoryAction = "ADD_ITEM"
	HistoryActionRemoveItem     HistoryAction = "REMOVE_ITEM"
	HistoryActionUpdateQuantity HistoryAction = "UPDATE_QUANTITY"
)

// HistoryRecord is one entry of the per-order audit trail. It is an
// append-only record, not an aggregate; write it and never touch it again.
type HistoryRecord struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	Action         HistoryAction
	PreviousStatus string
	NewStatus      string
	ChangedBy      *kernel.UUID
	Reason         string
	OccurredAt     time.Time
}
