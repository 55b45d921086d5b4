// Package historyrepo persists the append-only order audit trail.
package historyrepo

import (
	"time"

	"github.com/google/uuid"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// HistoryDTO is the database shape of one audit record.
type HistoryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	Action         string
	PreviousStatus string
	NewStatus      string
	ChangedBy      *uuid.UUID `gorm:"type:uuid"`
	Reason         string
	OccurredAt     time.Time `gorm:"index"`
}

// TableName overrides GORM's naming convention.
func (HistoryDTO) TableName() string {
	return "order_histories"
}

func fromDomain(record order.HistoryRecord) HistoryDTO {
	var changedBy *uuid.UUID
	if record.ChangedBy != nil {
		raw := record.ChangedBy.Bytes()
		changedBy = &raw
	}

	return HistoryDTO{
		ID:             record.ID.Bytes(),
		OrderID:        record.OrderID.Bytes(),
		Action:         string(record.Action),
		PreviousStatus: record.PreviousStatus,
		NewStatus:      record.NewStatus,
		ChangedBy:      changedBy,
		Reason:         record.Reason,
		OccurredAt:     record.OccurredAt,
	}
}

func toDomain(dto HistoryDTO) (order.HistoryRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.HistoryRecord{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.HistoryRecord{}, err
	}

	var changedBy *kernel.UUID
	if dto.ChangedBy != nil {
		actor, actorErr := kernel.UUIDFromBytes((*dto.ChangedBy)[:])
		if actorErr != nil {
			return order.HistoryRecord{}, actorErr
		}
		changedBy = &actor
	}

	return order.HistoryRecord{
		ID:             id,
		OrderID:        orderID,
		Action:         order.HistoryAction(dto.Action),
		PreviousStatus: dto.PreviousStatus,
		NewStatus:      dto.NewStatus,
		ChangedBy:      changedBy,
		Reason:         dto.Reason,
		OccurredAt:     dto.OccurredAt,
	}, nil
}
