// Package orderrepo persists the order aggregate and its lines. It maps the
// aggregate to an orders row plus one order_lines row per line, restoring
// the aggregate through the domain constructors on the way back out.
package orderrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/core/domain/model/order"
)

// OrderDTO is the database shape of an order aggregate. Status is stored by
// wire name, prices in integer cents.
type OrderDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID          *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName        string
	WaiterID            *uuid.UUID `gorm:"type:uuid;index"`
	TableNumber         int
	Status              string `gorm:"index"`
	TotalPrice          int64
	SpecialInstructions string
	Lines               []OrderLineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time
	PreparedAt          *time.Time
	DeliveredAt         *time.Time
}

// TableName overrides GORM's naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO is the database shape of one order line. The product snapshot
// and captured prices are denormalized onto the row; Extras is a JSON object
// of selection flags.
type OrderLineDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;index"`
	ProductID       uuid.UUID `gorm:"type:uuid"`
	ProductName     string
	Category        string
	PreparationTime int
	Quantity        int
	Extras          string `gorm:"type:jsonb"`
	UnitPrice       int64
	ExtrasPrice     int64
	Subtotal        int64
}

// TableName overrides GORM's naming convention.
func (OrderLineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var customerID *uuid.UUID
	if id := aggregate.CustomerID(); id != nil {
		raw := id.Bytes()
		customerID = &raw
	}
	var waiterID *uuid.UUID
	if id := aggregate.WaiterID(); id != nil {
		raw := id.Bytes()
		waiterID = &raw
	}

	lines := aggregate.Lines()
	lineDTOs := make([]OrderLineDTO, 0, len(lines))
	for _, line := range lines {
		lineDTO, err := lineFromDomain(aggregate.ID(), line)
		if err != nil {
			return OrderDTO{}, err
		}
		lineDTOs = append(lineDTOs, lineDTO)
	}

	return OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		CustomerID:          customerID,
		CustomerName:        aggregate.CustomerName(),
		WaiterID:            waiterID,
		TableNumber:         aggregate.TableNumber(),
		Status:              aggregate.Status().String(),
		TotalPrice:          aggregate.TotalPrice().Cents(),
		SpecialInstructions: aggregate.SpecialInstructions(),
		Lines:               lineDTOs,
		CreatedAt:           aggregate.CreatedAt(),
		PreparedAt:          aggregate.PreparedAt(),
		DeliveredAt:         aggregate.DeliveredAt(),
	}, nil
}

func lineFromDomain(orderID kernel.UUID, line *order.Line) (OrderLineDTO, error) {
	extras, err := json.Marshal(line.Extras())
	if err != nil {
		return OrderLineDTO{}, err
	}

	return OrderLineDTO{
		ID:              line.ID().Bytes(),
		OrderID:         orderID.Bytes(),
		ProductID:       line.ProductID().Bytes(),
		ProductName:     line.ProductName(),
		Category:        string(line.Category()),
		PreparationTime: line.PreparationTime(),
		Quantity:        line.Quantity(),
		Extras:          string(extras),
		UnitPrice:       line.UnitPrice().Cents(),
		ExtrasPrice:     line.ExtrasPrice().Cents(),
		Subtotal:        line.Subtotal().Cents(),
	}, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var customerID *kernel.UUID
	if dto.CustomerID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CustomerID)[:])
		if cErr != nil {
			return nil, cErr
		}
		customerID = &cID
	}
	var waiterID *kernel.UUID
	if dto.WaiterID != nil {
		wID, wErr := kernel.UUIDFromBytes((*dto.WaiterID)[:])
		if wErr != nil {
			return nil, wErr
		}
		waiterID = &wID
	}

	lines := make([]*order.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		line, lineErr := lineToDomain(lineDTO)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		customerID,
		dto.CustomerName,
		waiterID,
		dto.TableNumber,
		status,
		lines,
		dto.SpecialInstructions,
		dto.CreatedAt,
		dto.PreparedAt,
		dto.DeliveredAt,
	)
}

func lineToDomain(dto OrderLineDTO) (*order.Line, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	var extras order.Extras
	if dto.Extras != "" {
		if err = json.Unmarshal([]byte(dto.Extras), &extras); err != nil {
			return nil, err
		}
	}

	unitPrice, err := kernel.NewPriceFromCents(dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	extrasPrice, err := kernel.NewPriceFromCents(dto.ExtrasPrice)
	if err != nil {
		return nil, err
	}

	return order.RestoreLine(
		id,
		productID,
		dto.ProductName,
		menu.CategoryType(dto.Category),
		dto.PreparationTime,
		dto.Quantity,
		extras,
		unitPrice,
		extrasPrice,
	)
}
