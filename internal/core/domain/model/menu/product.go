// Package menu holds the value objects exchanged with the menu-catalog
// collaborator. The catalog itself (products, pricing strategies, admin) is
// external to this core; orders only ever see the read-only Product snapshot
// returned at order-time.
package menu

import (
	"errors"
	"fmt"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
)

// ErrProductIsNotConstructed is returned when a Product instance was not
// created through the NewProduct factory method.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// CategoryType classifies a product within the menu. The wire names are the
// catalog's own (Spanish) category identifiers.
type CategoryType string

const (
	CategoryBeverages CategoryType = "BEBIDAS"
	CategoryStarters  CategoryType = "ENTRADAS"
	CategoryMains     CategoryType = "COMIDAS"
	CategoryDesserts  CategoryType = "POSTRES"
)

// Validate checks that the category is one of the catalog's known types.
func (c CategoryType) Validate() error {
	switch c {
	case CategoryBeverages, CategoryStarters, CategoryMains, CategoryDesserts:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"categoryType",
			fmt.Errorf("%q is not a known category type", string(c)),
		)
	}
}

func (c CategoryType) String() string {
	return string(c)
}

// Product is the read-only snapshot of a catalog product used when adding a
// line to an order: name and category drive station routing, base price and
// the extras price mapping fix the line's price at order-time, and the
// preparation time feeds routing priority.
type Product struct {
	id              kernel.UUID
	name            string
	category        CategoryType
	basePrice       kernel.Price
	preparationTime int
	extrasPrices    map[string]kernel.Price

	isConstructed bool
}

// NewProduct creates a validated product snapshot.
//
// Parameters:
//   - id: catalog identifier
//   - name: display name, used by routing keyword rules
//   - category: one of the CategoryType constants
//   - basePrice: unit price at order-time
//   - preparationTime: preparation time in minutes (must not be negative)
//   - extrasPrices: per-extra surcharge mapping (may be nil)
func NewProduct(
	id kernel.UUID,
	name string,
	category CategoryType,
	basePrice kernel.Price,
	preparationTime int,
	extrasPrices map[string]kernel.Price,
) (Product, error) {
	if err := id.Validate(); err != nil {
		return Product{}, err
	}
	if name == "" {
		return Product{}, errs.NewValueIsRequiredError("name")
	}
	if err := category.Validate(); err != nil {
		return Product{}, err
	}
	if preparationTime < 0 {
		return Product{}, errs.NewValueIsInvalidErrorWithCause(
			"preparationTime",
			fmt.Errorf("%d is negative", preparationTime),
		)
	}

	prices := make(map[string]kernel.Price, len(extrasPrices))
	for extra, price := range extrasPrices {
		prices[extra] = price
	}

	return Product{
		id:              id,
		name:            name,
		category:        category,
		basePrice:       basePrice,
		preparationTime: preparationTime,
		extrasPrices:    prices,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Product was created via NewProduct.
func (p Product) Validate() error {
	if !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the catalog identifier.
func (p Product) ID() kernel.UUID {
	return p.id
}

// Name returns the product display name.
func (p Product) Name() string {
	return p.name
}

// Category returns the product's category type.
func (p Product) Category() CategoryType {
	return p.category
}

// BasePrice returns the unit price captured at order-time.
func (p Product) BasePrice() kernel.Price {
	return p.basePrice
}

// PreparationTime returns the preparation time in minutes.
func (p Product) PreparationTime() int {
	return p.preparationTime
}

// ExtrasPrices returns a copy of the per-extra surcharge mapping.
func (p Product) ExtrasPrices() map[string]kernel.Price {
	prices := make(map[string]kernel.Price, len(p.extrasPrices))
	for extra, price := range p.extrasPrices {
		prices[extra] = price
	}
	return prices
}

// ExtrasPrice sums the surcharges of the selected extras. Extras the catalog
// does not price are free rather than an error, matching catalog behavior.
func (p Product) ExtrasPrice(selected map[string]bool) kernel.Price {
	total := kernel.ZeroPrice()
	for extra, on := range selected {
		if !on {
			continue
		}
		if price, ok := p.extrasPrices[extra]; ok {
			total = total.Add(price)
		}
	}
	return total
}
