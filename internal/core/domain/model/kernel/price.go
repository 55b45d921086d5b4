package kernel

import (
	"fmt"

	"cafe/internal/pkg/errs"
)

// Price is a value object representing a monetary amount in integer cents.
// Order and line prices are captured at order-time and never recomputed from
// the catalog, so Price carries no currency drift: arithmetic is exact.
//
// The zero value is a valid price of 0.00, used for newly created orders
// before any line is added.
//
// Example:
//
//	unit := kernel.NewPriceFromCents(250) // 2.50
//	subtotal := unit.MulInt(2)            // 5.00
//	fmt.Println(subtotal)                 // "5.00"
type Price struct {
	cents int64
}

// NewPriceFromCents creates a Price from an amount in cents.
// Negative amounts are invalid: the café never owes a customer money
// through an order line.
func NewPriceFromCents(cents int64) (Price, error) {
	if cents < 0 {
		return Price{}, errs.NewValueIsInvalidErrorWithCause(
			"price",
			fmt.Errorf("%d cents is negative", cents),
		)
	}
	return Price{cents: cents}, nil
}

// MustPriceFromCents is a convenience constructor for literals in tests and
// seed data. It panics on a negative amount.
func MustPriceFromCents(cents int64) Price {
	p, err := NewPriceFromCents(cents)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPrice returns a price of 0.00.
func ZeroPrice() Price {
	return Price{}
}

// Cents returns the amount in cents.
func (p Price) Cents() int64 {
	return p.cents
}

// Add returns the sum of two prices.
func (p Price) Add(other Price) Price {
	return Price{cents: p.cents + other.cents}
}

// MulInt returns the price multiplied by a non-negative integer factor,
// used for quantity × unit-price subtotals.
func (p Price) MulInt(factor int) Price {
	return Price{cents: p.cents * int64(factor)}
}

// IsZero reports whether the price is 0.00.
func (p Price) IsZero() bool {
	return p.cents == 0
}

// IsEqual compares two prices for equality.
func (p Price) IsEqual(other Price) bool {
	return p.cents == other.cents
}

// String formats the price with two decimal places, e.g. "11.50".
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", p.cents/100, p.cents%100)
}
