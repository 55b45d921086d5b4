// Package menurepo backs the menu catalog port with a products table.
// Commands read products through it to capture prices at add-time.
package menurepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/pkg/errs"
)

// ProductDTO is the database shape of a catalog product. ExtrasPrices is a
// JSON object of extra-name to price in cents.
type ProductDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string
	Category        string `gorm:"index"`
	BasePrice       int64
	PreparationTime int
	ExtrasPrices    string `gorm:"type:jsonb"`
}

// TableName overrides GORM's naming convention.
func (ProductDTO) TableName() string {
	return "products"
}

// GormMenuCatalog implements ports.MenuCatalog using GORM.
type GormMenuCatalog struct {
	db *gorm.DB
}

// NewGormMenuCatalog creates a new GORM menu catalog.
func NewGormMenuCatalog(db *gorm.DB) *GormMenuCatalog {
	return &GormMenuCatalog{db: db}
}

// GetProduct retrieves a product by its catalog identifier.
func (r *GormMenuCatalog) GetProduct(ctx context.Context, id kernel.UUID) (menu.Product, error) {
	if err := id.Validate(); err != nil {
		return menu.Product{}, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return menu.Product{}, errs.NewObjectNotFoundError("product", id.String())
		}
		return menu.Product{}, err
	}

	return toDomain(dto)
}

// AddProduct stores a catalog product. Used by seeding, not by the order
// flow.
func (r *GormMenuCatalog) AddProduct(ctx context.Context, product menu.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(product)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func fromDomain(product menu.Product) (ProductDTO, error) {
	extras := make(map[string]int64, len(product.ExtrasPrices()))
	for name, price := range product.ExtrasPrices() {
		extras[name] = price.Cents()
	}
	raw, err := json.Marshal(extras)
	if err != nil {
		return ProductDTO{}, err
	}

	return ProductDTO{
		ID:              product.ID().Bytes(),
		Name:            product.Name(),
		Category:        string(product.Category()),
		BasePrice:       product.BasePrice().Cents(),
		PreparationTime: product.PreparationTime(),
		ExtrasPrices:    string(raw),
	}, nil
}

func toDomain(dto ProductDTO) (menu.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return menu.Product{}, err
	}

	basePrice, err := kernel.NewPriceFromCents(dto.BasePrice)
	if err != nil {
		return menu.Product{}, err
	}

	extrasCents := make(map[string]int64)
	if dto.ExtrasPrices != "" {
		if err = json.Unmarshal([]byte(dto.ExtrasPrices), &extrasCents); err != nil {
			return menu.Product{}, err
		}
	}
	extras := make(map[string]kernel.Price, len(extrasCents))
	for name, cents := range extrasCents {
		price, priceErr := kernel.NewPriceFromCents(cents)
		if priceErr != nil {
			return menu.Product{}, priceErr
		}
		extras[name] = price
	}

	return menu.NewProduct(
		id,
		dto.Name,
		menu.CategoryType(dto.Category),
		basePrice,
		dto.PreparationTime,
		extras,
	)
}
