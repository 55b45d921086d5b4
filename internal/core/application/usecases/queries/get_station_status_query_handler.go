package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/station"
	"cafe/internal/core/ports"
)

// GetStationStatusQueryHandler aggregates each station's queue workload in a
// single grouped query. "Today" is derived from the injected clock so tests
// can pin it.
type GetStationStatusQueryHandler struct {
	db    *gorm.DB
	clock ports.Clock
}

// NewGetStationStatusQueryHandler creates a handler for station workload
// queries.
func NewGetStationStatusQueryHandler(db *gorm.DB, clock ports.Clock) GetStationStatusQueryHandler {
	return GetStationStatusQueryHandler{db: db, clock: clock}
}

// Handle executes the query. One row per station, sorted by name; the
// capacity band reflects the pending backlog (high under 3, medium under 6,
// low from 6 up).
func (h GetStationStatusQueryHandler) Handle(
	ctx context.Context,
	query GetStationStatusQuery,
) ([]GetStationStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stations := make([]GetStationStatusQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.name,
			s.station_type,
			s.is_active,
			COUNT(q.id) FILTER (WHERE q.completed_at IS NULL)        AS pending,
			COUNT(q.id) FILTER (WHERE q.completed_at >= ?)           AS completed_today,
			AVG(EXTRACT(EPOCH FROM (q.completed_at - q.assigned_at)))
				FILTER (WHERE q.completed_at IS NOT NULL)            AS avg_seconds
		FROM stations s
		LEFT JOIN station_queue_entries q ON q.station_id = s.id
		GROUP BY s.id, s.name, s.station_type, s.is_active
		ORDER BY s.name
	`, startOfDay).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetStationStatusQueryResponse
		var id uuid.UUID
		var stationType string
		var avgSeconds *float64

		err = rows.Scan(
			&id,
			&resp.Name,
			&stationType,
			&resp.IsActive,
			&resp.PendingOrders,
			&resp.CompletedToday,
			&avgSeconds,
		)
		if err != nil {
			return nil, err
		}

		stationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = stationID
		resp.StationType = station.Type(stationType)

		if avgSeconds != nil {
			minutes := int(*avgSeconds / 60)
			resp.AvgPreparationMinutes = &minutes
		}
		resp.CapacityStatus = capacityBand(resp.PendingOrders)

		stations = append(stations, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}

func capacityBand(pending int) string {
	switch {
	case pending < 3:
		return CapacityHigh
	case pending < 6:
		return CapacityMedium
	default:
		return CapacityLow
	}
}
