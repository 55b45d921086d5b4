package stationrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/station"
	"cafe/internal/pkg/errs"
)

// GormStationRepository implements ports.StationRepository using GORM.
type GormStationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStationRepository creates a new GORM station repository.
func NewGormStationRepository(db *gorm.DB, tracker aggregateTracker) *GormStationRepository {
	return &GormStationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new station.
func (r *GormStationRepository) Add(ctx context.Context, aggregate *station.Station) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := stationFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing station.
func (r *GormStationRepository) Update(ctx context.Context, aggregate *station.Station) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := stationFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&StationDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("station", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a station by ID.
func (r *GormStationRepository) Get(ctx context.Context, id kernel.UUID) (*station.Station, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("station", id.String())
		}
		return nil, err
	}

	return stationToDomain(dto)
}

// GetActiveByType retrieves the active station of the given type. Routing
// targets resolve through this, so a deactivated station stops receiving
// new work.
func (r *GormStationRepository) GetActiveByType(ctx context.Context, stationType station.Type) (*station.Station, error) {
	if err := stationType.Validate(); err != nil {
		return nil, err
	}

	var dto StationDTO
	err := r.db.WithContext(ctx).
		First(&dto, "station_type = ? AND is_active", stationType.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stationType", stationType.String())
		}
		return nil, err
	}

	return stationToDomain(dto)
}

// GetByType retrieves the station of the given type regardless of its active
// flag. Queue completion resolves through this so deactivated stations can
// still finish queued work.
func (r *GormStationRepository) GetByType(ctx context.Context, stationType station.Type) (*station.Station, error) {
	if err := stationType.Validate(); err != nil {
		return nil, err
	}

	var dto StationDTO
	err := r.db.WithContext(ctx).First(&dto, "station_type = ?", stationType.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stationType", stationType.String())
		}
		return nil, err
	}

	return stationToDomain(dto)
}

// GetAll retrieves every station.
func (r *GormStationRepository) GetAll(ctx context.Context) ([]*station.Station, error) {
	var dtos []StationDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	stations := make([]*station.Station, 0, len(dtos))
	for _, dto := range dtos {
		s, err := stationToDomain(dto)
		if err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}

	return stations, nil
}

// GormStationQueueRepository implements ports.StationQueueRepository using
// GORM.
type GormStationQueueRepository struct {
	db *gorm.DB
}

// NewGormStationQueueRepository creates a new GORM station queue repository.
func NewGormStationQueueRepository(db *gorm.DB) *GormStationQueueRepository {
	return &GormStationQueueRepository{db: db}
}

// Add saves a new queue entry.
func (r *GormStationQueueRepository) Add(ctx context.Context, entry *station.QueueEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing queue entry.
func (r *GormStationQueueRepository) Update(ctx context.Context, entry *station.QueueEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	result := r.db.WithContext(ctx).Model(&QueueEntryDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("queueEntry", entry.ID().String())
	}

	return nil
}

// GetIncomplete retrieves the pending entry linking the station and order.
func (r *GormStationQueueRepository) GetIncomplete(ctx context.Context, stationID, orderID kernel.UUID) (*station.QueueEntry, error) {
	var dto QueueEntryDTO
	err := r.db.WithContext(ctx).
		First(&dto, "station_id = ? AND order_id = ? AND completed_at IS NULL",
			stationID.Bytes(), orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("queueEntry", orderID.String())
		}
		return nil, err
	}

	return entryToDomain(dto)
}

// GetPendingForStation retrieves a station's pending entries, oldest first.
func (r *GormStationQueueRepository) GetPendingForStation(ctx context.Context, stationID kernel.UUID) ([]*station.QueueEntry, error) {
	var dtos []QueueEntryDTO
	err := r.db.WithContext(ctx).
		Order("assigned_at").
		Find(&dtos, "station_id = ? AND completed_at IS NULL", stationID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*station.QueueEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, dtoErr := entryToDomain(dto)
		if dtoErr != nil {
			return nil, dtoErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// CountIncompleteForOrder counts the order's pending entries across all
// stations.
func (r *GormStationQueueRepository) CountIncompleteForOrder(ctx context.Context, orderID kernel.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&QueueEntryDTO{}).
		Where("order_id = ? AND completed_at IS NULL", orderID.Bytes()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// CountCompletedForStationSince counts a station's completions at or after
// the given instant.
func (r *GormStationQueueRepository) CountCompletedForStationSince(ctx context.Context, stationID kernel.UUID, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&QueueEntryDTO{}).
		Where("station_id = ? AND completed_at >= ?", stationID.Bytes(), since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// DeleteIncompleteForOrder releases the order's pending entries. Completed
// entries stay for the workload statistics.
func (r *GormStationQueueRepository) DeleteIncompleteForOrder(ctx context.Context, orderID kernel.UUID) error {
	return r.db.WithContext(ctx).
		Where("order_id = ? AND completed_at IS NULL", orderID.Bytes()).
		Delete(&QueueEntryDTO{}).Error
}
