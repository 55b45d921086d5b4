package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
)

// GetOrderHistoryQueryHandler reads an order's audit records chronologically.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for audit trail queries.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the query, oldest record first.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetOrderHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			action,
			previous_status,
			new_status,
			changed_by,
			reason,
			occurred_at
		FROM order_histories
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrderHistoryQueryResponse
		var id uuid.UUID
		var action string
		var changedBy uuid.NullUUID
		var occurredAt time.Time
		var previousStatus, newStatus, reason sql.NullString

		err = rows.Scan(
			&id,
			&action,
			&previousStatus,
			&newStatus,
			&changedBy,
			&reason,
			&occurredAt,
		)
		if err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = recordID
		resp.Action = order.HistoryAction(action)
		resp.PreviousStatus = previousStatus.String
		resp.NewStatus = newStatus.String
		resp.Reason = reason.String
		resp.OccurredAt = occurredAt

		if changedBy.Valid {
			actor, actorErr := kernel.UUIDFromBytes(changedBy.UUID[:])
			if actorErr != nil {
				return nil, actorErr
			}
			resp.ChangedBy = &actor
		}

		records = append(records, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
