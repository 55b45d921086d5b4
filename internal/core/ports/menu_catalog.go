package ports

import (
	"context"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
)

// MenuCatalog provides read access to the product catalog. Commands resolve
// products through it at line-add time to capture prices; the captured
// values never change afterwards even when the catalog does.
type MenuCatalog interface {
	// GetProduct retrieves a product by its catalog identifier.
	// Returns an ObjectNotFoundError for an unknown product.
	GetProduct(ctx context.Context, id kernel.UUID) (menu.Product, error)
}
