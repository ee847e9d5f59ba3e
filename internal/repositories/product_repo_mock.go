package repositories

import (
	"context"
	"errors"
	"time"

	"shopfront/internal/models"
)

// MockProductRepository is a JSON-file implementation of ProductRepository.
type MockProductRepository struct {
	table *jsonTable[models.Product]
}

// NewMockProductRepository creates a product table under dir ("" keeps it in memory).
func NewMockProductRepository(dir string) *MockProductRepository {
	return &MockProductRepository{
		table: newJSONTable(dir, "products",
			func(p *models.Product) uint { return p.ID },
			func(p *models.Product, id uint) { p.ID = id }),
	}
}

func (r *MockProductRepository) List(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return r.table.filter(filter.Match)
}

func (r *MockProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	product, err := r.table.get(id)
	if err != nil {
		return nil, lookupError("product", id, err)
	}
	return product, nil
}

func (r *MockProductRepository) GetByIDs(_ context.Context, ids []uint) (map[uint]models.Product, error) {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	rows, err := r.table.filter(func(p *models.Product) bool { return want[p.ID] })
	if err != nil {
		return nil, err
	}
	found := make(map[uint]models.Product, len(rows))
	for _, p := range rows {
		found[p.ID] = p
	}
	return found, nil
}

func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	return r.table.insert(product)
}

func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	err := r.table.update(product.ID, func(stored *models.Product) error {
		product.CreatedAt = stored.CreatedAt
		product.UpdatedAt = time.Now()
		*stored = *product
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return notFound("product", product.ID)
	}
	return err
}

func (r *MockProductRepository) Delete(_ context.Context, id uint) error {
	if err := r.table.remove(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound("product", id)
		}
		return err
	}
	return nil
}

func (r *MockProductRepository) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	rows, err := r.List(ctx, filter)
	return int64(len(rows)), err
}

func (r *MockProductRepository) AdjustStock(_ context.Context, id uint, delta int) error {
	err := r.table.update(id, func(p *models.Product) error {
		p.Stock = max(p.Stock+delta, 0)
		p.UpdatedAt = time.Now()
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return notFound("product", id)
	}
	return err
}
