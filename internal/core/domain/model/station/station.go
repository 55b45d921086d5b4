package station

import (
	"errors"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

// Domain errors for station operations.
var (
	// ErrNameIsRequired is returned when attempting to create a station without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrStationIsNotConstructed is returned when using an improperly initialized Station.
	ErrStationIsNotConstructed = errors.New("Station must be created via NewStation constructor")
)

// Type identifies the kind of preparation work a station performs. Routing
// assigns each order line to exactly one station type.
type Type string

const (
	TypeHotBeverages  Type = "BEBIDAS_CALIENTES"
	TypeColdBeverages Type = "BEBIDAS_FRIAS"
	TypeBakery        Type = "PANADERIA"
	TypeKitchen       Type = "COCINA"
	TypeDesserts      Type = "POSTRES"
)

// Validate checks the type against the known station kinds.
func (t Type) Validate() error {
	switch t {
	case TypeHotBeverages, TypeColdBeverages, TypeBakery, TypeKitchen, TypeDesserts:
		return nil
	default:
		return errs.NewValueIsInvalidError("stationType")
	}
}

// String returns the wire name of the station type.
func (t Type) String() string {
	return string(t)
}

// AllTypes returns every known station type.
func AllTypes() []Type {
	return []Type{TypeHotBeverages, TypeColdBeverages, TypeBakery, TypeKitchen, TypeDesserts}
}

// Station represents one physical preparation station of the café.
// It is an aggregate root holding identity, type, and the active flag that
// determines whether routing may queue work onto it. Queue entries are a
// separate high-churn entity (see QueueEntry) and are not embedded here.
//
// Business rules:
//   - a station must have a valid UUID, a non-empty name, and a known type
//   - routing only targets active stations; Deactivate takes a station out
//     of rotation without touching its queue
type Station struct {
	id          kernel.UUID
	name        string
	stationType Type
	isActive    bool

	guard guard.ConstructorGuard
}

// NewStation creates a new active Station.
//
// Parameters:
//   - id: unique identifier (must be valid UUID)
//   - name: human-readable name (must be non-empty)
//   - stationType: one of the Type constants
//
// Returns:
//   - *Station: a fully initialized station, active and ready for routing
//   - error: validation error if any parameter is invalid
func NewStation(id kernel.UUID, name string, stationType Type) (*Station, error) {
	station := &Station{
		isActive: true,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		station.setID(id),
		station.setName(name),
		station.setType(stationType),
	); err != nil {
		return nil, err
	}

	return station, nil
}

// RestoreStation reconstructs a Station from persistent storage, preserving
// its active flag.
func RestoreStation(id kernel.UUID, name string, stationType Type, isActive bool) (*Station, error) {
	station := &Station{
		isActive: isActive,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		station.setID(id),
		station.setName(name),
		station.setType(stationType),
	); err != nil {
		return nil, err
	}

	return station, nil
}

// Validate checks if the Station was properly constructed.
func (s *Station) Validate() error {
	if s == nil {
		return ErrStationIsNotConstructed
	}
	return s.guard.Validate(ErrStationIsNotConstructed)
}

// IsEqual compares two stations by their unique identifiers.
func (s *Station) IsEqual(other *Station) bool {
	if other == nil {
		return false
	}
	return s.id.IsEqual(other.id)
}

// ID returns the station's unique identifier.
func (s *Station) ID() kernel.UUID {
	return s.id
}

// Name returns the station's human-readable name.
func (s *Station) Name() string {
	return s.name
}

// StationType returns the kind of work the station performs.
func (s *Station) StationType() Type {
	return s.stationType
}

// IsActive reports whether routing may queue work onto the station.
func (s *Station) IsActive() bool {
	return s.isActive
}

// Activate puts the station back into the routing rotation.
func (s *Station) Activate() {
	s.isActive = true
}

// Deactivate takes the station out of the routing rotation. Already-queued
// entries stay on the station until completed.
func (s *Station) Deactivate() {
	s.isActive = false
}

func (s *Station) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Station) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	s.name = name
	return nil
}

func (s *Station) setType(stationType Type) error {
	if err := stationType.Validate(); err != nil {
		return err
	}
	s.stationType = stationType
	return nil
}
