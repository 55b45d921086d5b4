package queries

import (
	"errors"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/station"
	"cafe/internal/pkg/guard"
)

var ErrGetStationStatusQueryIsNotConstructed = errors.New(
	"GetStationStatusQuery must be created via NewGetStationStatusQuery constructor",
)

// Capacity bands derived from a station's pending workload.
const (
	CapacityHigh   = "high"
	CapacityMedium = "medium"
	CapacityLow    = "low"
)

// GetStationStatusQuery retrieves the workload of every kitchen station:
// pending entries, completions today, and average preparation time.
type GetStationStatusQuery struct {
	guard guard.ConstructorGuard
}

// NewGetStationStatusQuery creates a query to retrieve station workloads.
func NewGetStationStatusQuery() GetStationStatusQuery {
	return GetStationStatusQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetStationStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetStationStatusQueryIsNotConstructed)
}

// GetStationStatusQueryResponse is one station's workload row.
// AvgPreparationMinutes is nil while the station has no completions.
type GetStationStatusQueryResponse struct {
	ID                    kernel.UUID
	Name                  string
	StationType           station.Type
	IsActive              bool
	PendingOrders         int
	CompletedToday        int
	AvgPreparationMinutes *int
	CapacityStatus        string
}
