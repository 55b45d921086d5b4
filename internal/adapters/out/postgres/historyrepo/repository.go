package historyrepo

import (
	"context"

	"gorm.io/gorm"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// GormOrderHistoryRepository implements ports.OrderHistoryRepository using
// GORM. Records are append-only; nothing updates or deletes them.
type GormOrderHistoryRepository struct {
	db *gorm.DB
}

// NewGormOrderHistoryRepository creates a new GORM audit-trail repository.
func NewGormOrderHistoryRepository(db *gorm.DB) *GormOrderHistoryRepository {
	return &GormOrderHistoryRepository{db: db}
}

// Append stores one audit record.
func (r *GormOrderHistoryRepository) Append(ctx context.Context, record order.HistoryRecord) error {
	if err := record.ID.Validate(); err != nil {
		return err
	}
	if err := record.OrderID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListForOrder retrieves an order's audit records, oldest first.
func (r *GormOrderHistoryRepository) ListForOrder(ctx context.Context, orderID kernel.UUID) ([]order.HistoryRecord, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []HistoryDTO
	err := r.db.WithContext(ctx).
		Order("occurred_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	records := make([]order.HistoryRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, dtoErr := toDomain(dto)
		if dtoErr != nil {
			return nil, dtoErr
		}
		records = append(records, record)
	}

	return records, nil
}
