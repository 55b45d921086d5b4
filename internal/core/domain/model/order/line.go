package order

import (
	"errors"
	"fmt"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/pkg/errs"
)

// ErrLineIsNotConstructed is returned when a Line instance was not created
// through the NewLine or RestoreLine factory methods.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine or RestoreLine constructor")

// Extras is the set of selected product extras, keyed by the catalog's extra
// name. The shape is owned by the menu collaborator; the order core only
// stores the flags and the price computed from them at add-time.
type Extras map[string]bool

// clone returns an independent copy so callers cannot mutate a line's extras
// behind its back.
func (e Extras) clone() Extras {
	if e == nil {
		return nil
	}
	out := make(Extras, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Line is one product entry within an order.
//
// Prices are captured at add-time from the catalog snapshot and never
// recomputed retroactively: later catalog price changes do not move an
// already-placed order. Subtotal is (unit price + extras price) × quantity
// and is recomputed whenever quantity changes.
type Line struct {
	id              kernel.UUID
	productID       kernel.UUID
	productName     string
	category        menu.CategoryType
	preparationTime int
	quantity        int
	extras          Extras
	unitPrice       kernel.Price
	extrasPrice     kernel.Price
	subtotal        kernel.Price

	isConstructed bool
}

// NewLine creates a line from a catalog product snapshot, fixing unit and
// extras prices at order-time.
func NewLine(id kernel.UUID, product menu.Product, quantity int, extras Extras) (*Line, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	line := &Line{
		productID:       product.ID(),
		productName:     product.Name(),
		category:        product.Category(),
		preparationTime: product.PreparationTime(),
		extras:          extras.clone(),
		unitPrice:       product.BasePrice(),
		extrasPrice:     product.ExtrasPrice(extras),
		isConstructed:   true,
	}

	if err := errors.Join(
		line.setID(id),
		line.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return line, nil
}

// RestoreLine reconstructs a line from persisted state, or re-creates an
// equivalent line during a remove-item undo. The caller supplies the captured
// prices; they are not recomputed.
func RestoreLine(
	id kernel.UUID,
	productID kernel.UUID,
	productName string,
	category menu.CategoryType,
	preparationTime int,
	quantity int,
	extras Extras,
	unitPrice kernel.Price,
	extrasPrice kernel.Price,
) (*Line, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	line := &Line{
		productID:       productID,
		productName:     productName,
		category:        category,
		preparationTime: preparationTime,
		extras:          extras.clone(),
		unitPrice:       unitPrice,
		extrasPrice:     extrasPrice,
		isConstructed:   true,
	}

	if err := errors.Join(
		line.setID(id),
		line.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return line, nil
}

// Validate ensures the Line was created through a constructor.
func (l *Line) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLineIsNotConstructed
	}
	return nil
}

// ID returns the line's unique identifier.
func (l *Line) ID() kernel.UUID {
	return l.id
}

// ProductID returns the catalog identifier of the ordered product.
func (l *Line) ProductID() kernel.UUID {
	return l.productID
}

// ProductName returns the product name captured at add-time.
func (l *Line) ProductName() string {
	return l.productName
}

// Category returns the product's category type captured at add-time.
func (l *Line) Category() menu.CategoryType {
	return l.category
}

// PreparationTime returns the preparation minutes captured at add-time.
func (l *Line) PreparationTime() int {
	return l.preparationTime
}

// Quantity returns the ordered quantity.
func (l *Line) Quantity() int {
	return l.quantity
}

// Extras returns a copy of the selected extras flags.
func (l *Line) Extras() Extras {
	return l.extras.clone()
}

// UnitPrice returns the unit price captured at add-time.
func (l *Line) UnitPrice() kernel.Price {
	return l.unitPrice
}

// ExtrasPrice returns the extras surcharge captured at add-time.
func (l *Line) ExtrasPrice() kernel.Price {
	return l.extrasPrice
}

// Subtotal returns (unit price + extras price) × quantity.
func (l *Line) Subtotal() kernel.Price {
	return l.subtotal
}

// SetQuantity changes the quantity and recomputes the subtotal.
// The owning order recomputes its total afterwards.
func (l *Line) SetQuantity(quantity int) error {
	return l.setQuantity(quantity)
}

func (l *Line) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Line) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is not at least 1", quantity),
		)
	}
	l.quantity = quantity
	l.recalcSubtotal()
	return nil
}

func (l *Line) recalcSubtotal() {
	l.subtotal = l.unitPrice.Add(l.extrasPrice).MulInt(l.quantity)
}
