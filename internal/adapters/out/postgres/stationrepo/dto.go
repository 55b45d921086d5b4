// Package stationrepo persists kitchen stations and their work queues.
package stationrepo

import (
	"time"

	"github.com/google/uuid"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/station"
)

// StationDTO is the database shape of a kitchen station.
type StationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	StationType string `gorm:"index"`
	IsActive    bool
}

// TableName overrides GORM's naming convention.
func (StationDTO) TableName() string {
	return "stations"
}

// QueueEntryDTO is the database shape of one station↔order work item.
// A NULL completed_at marks the entry as still pending.
type QueueEntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StationID   uuid.UUID `gorm:"type:uuid;index"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	AssignedAt  time.Time
	CompletedAt *time.Time
}

// TableName overrides GORM's naming convention.
func (QueueEntryDTO) TableName() string {
	return "station_queue_entries"
}

func stationFromDomain(aggregate *station.Station) StationDTO {
	return StationDTO{
		ID:          aggregate.ID().Bytes(),
		Name:        aggregate.Name(),
		StationType: aggregate.StationType().String(),
		IsActive:    aggregate.IsActive(),
	}
}

func stationToDomain(dto StationDTO) (*station.Station, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return station.RestoreStation(id, dto.Name, station.Type(dto.StationType), dto.IsActive)
}

func entryFromDomain(entry *station.QueueEntry) QueueEntryDTO {
	return QueueEntryDTO{
		ID:          entry.ID().Bytes(),
		StationID:   entry.StationID().Bytes(),
		OrderID:     entry.OrderID().Bytes(),
		AssignedAt:  entry.AssignedAt(),
		CompletedAt: entry.CompletedAt(),
	}
}

func entryToDomain(dto QueueEntryDTO) (*station.QueueEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	stationID, err := kernel.UUIDFromBytes(dto.StationID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return station.RestoreQueueEntry(id, stationID, orderID, dto.AssignedAt, dto.CompletedAt)
}
