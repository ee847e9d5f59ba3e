package services_test

import (
	"context"
	"testing"

	"shopfront/internal/models"
	"shopfront/internal/repositories"

	"github.com/stretchr/testify/require"
)

// newCatalog returns an in-memory store holding one category and products
// 1..5 priced 2000, 4000, ..., 10000.
func newCatalog(t *testing.T) *repositories.Store {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewMockStore("")

	category := &models.Category{Name: "General"}
	require.NoError(t, store.Categories.Create(ctx, category))
	for i := 1; i <= 5; i++ {
		p := &models.Product{
			CategoryID: category.ID,
			Name:       "Product",
			Price:      float64(i) * 2000,
			Stock:      10,
			Status:     models.ProductActive,
		}
		require.NoError(t, store.Products.Create(ctx, p))
		require.Equal(t, uint(i), p.ID)
	}
	return store
}

func uintPtr(v uint) *uint { return &v }
