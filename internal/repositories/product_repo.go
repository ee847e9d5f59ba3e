package repositories

import (
	"context"

	"shopfront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// GetByIDs returns the products that still exist, keyed by id.
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, filter models.ProductFilter) (int64, error)
	// AdjustStock adds delta to the stock of a product, clamping at zero.
	AdjustStock(ctx context.Context, id uint, delta int) error
}
