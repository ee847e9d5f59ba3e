package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shopfront/internal/models"
	"shopfront/internal/repositories"
	"shopfront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, customerID uint) (*models.Cart, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, cartID, productID uint, quantity int) (*models.CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) SetItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) error {
	return m.Called(ctx, cartID, itemID, quantity).Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	return m.Called(ctx, cartID, itemID).Error(0)
}

func (m *MockCartRepository) RemoveProducts(ctx context.Context, cartID uint, productIDs []uint) error {
	return m.Called(ctx, cartID, productIDs).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, cartID uint) error {
	return m.Called(ctx, cartID).Error(0)
}

func quantities(view *services.CartView) map[uint]int {
	out := map[uint]int{}
	for _, l := range view.Items {
		out[l.ProductID] = l.Quantity
	}
	return out
}

func TestCartView_MergesGuestLinesOnce(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())
	guest := []models.GuestLine{{ProductID: 5, Quantity: 2}}

	view, rest, err := svc.View(ctx, uintPtr(1), guest, services.Selection{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.False(t, view.Guest)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(5), view.Items[0].ProductID)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 20000.0, view.Total)

	// The guest list was discarded, so the next view has nothing to merge.
	again, rest, err := svc.View(ctx, uintPtr(1), rest, services.Selection{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, quantities(view), quantities(again))
}

func TestCartView_MergeAddsToExistingLine(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	_, err := svc.AddLine(ctx, 1, 3, 1)
	require.NoError(t, err)

	view, _, err := svc.View(ctx, uintPtr(1), []models.GuestLine{
		{ProductID: 3, Quantity: 2},
		{ProductID: 4, Quantity: 1},
	}, services.Selection{})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{3: 3, 4: 1}, quantities(view))
}

func TestCartView_DropsGuestLinesThatCannotMerge(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	inactive, err := store.Products.GetByID(ctx, 2)
	require.NoError(t, err)
	inactive.Status = models.ProductInactive
	require.NoError(t, store.Products.Update(ctx, inactive))

	view, rest, err := svc.View(ctx, uintPtr(1), []models.GuestLine{
		{ProductID: 99, Quantity: 1},
		{ProductID: 1, Quantity: 0},
		{ProductID: 2, Quantity: 1},
		{ProductID: 4, Quantity: 1},
	}, services.Selection{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, map[uint]int{4: 1}, quantities(view))
}

func TestCartView_InterruptedMergeKeepsRemainingLines(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	carts := new(MockCartRepository)
	svc := services.NewCartService(carts, store.Products, zap.NewNop())

	guest := []models.GuestLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 1},
		{ProductID: 3, Quantity: 1},
	}
	carts.On("GetOrCreate", ctx, uint(1)).Return(&models.Cart{ID: 10, CustomerID: 1}, nil)
	carts.On("AddItem", ctx, uint(10), uint(1), 1).Return(&models.CartItem{ID: 1}, nil).Once()
	carts.On("AddItem", ctx, uint(10), uint(2), 1).Return(nil, errors.New("database is locked")).Once()

	view, rest, err := svc.View(ctx, uintPtr(1), guest, services.Selection{})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.Equal(t, guest[1:], rest)
	carts.AssertExpectations(t)
	carts.AssertNotCalled(t, "AddItem", ctx, uint(10), uint(3), 1)
}

func TestCartView_UnreadableCatalogKeepsGuestLines(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o644))
	store := repositories.NewMockStore(dir)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	guest := []models.GuestLine{{ProductID: 5, Quantity: 2}}
	view, rest, err := svc.View(ctx, uintPtr(7), guest, services.Selection{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, repositories.ErrNotFound))
	assert.Nil(t, view)
	assert.Equal(t, guest, rest)

	cart, err := store.Carts.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartView_AnonymousWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	carts := new(MockCartRepository)
	svc := services.NewCartService(carts, store.Products, zap.NewNop())

	guest := []models.GuestLine{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 1}}
	view, rest, err := svc.View(ctx, nil, guest, services.SelectProducts([]uint{3}))
	require.NoError(t, err)
	assert.Equal(t, guest, rest)
	assert.True(t, view.Guest)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 6000.0, view.Total)
	carts.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
}

func TestCartView_MissingProductIsFlagged(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	_, err := svc.AddLine(ctx, 1, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, 1, 2, 2)
	require.NoError(t, err)
	require.NoError(t, store.Products.Delete(ctx, 1))

	view, _, err := svc.View(ctx, uintPtr(1), nil, services.Selection{})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	for _, l := range view.Items {
		assert.Equal(t, l.ProductID == 1, l.Missing)
	}
	assert.Equal(t, 8000.0, view.Total)
}

func TestCartView_SelectionTotal(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	for _, id := range []uint{1, 2, 3} {
		_, err := svc.AddLine(ctx, 1, id, 2)
		require.NoError(t, err)
	}

	all, _, err := svc.View(ctx, uintPtr(1), nil, services.Selection{})
	require.NoError(t, err)
	assert.Equal(t, 24000.0, all.Total)

	some, _, err := svc.View(ctx, uintPtr(1), nil, services.SelectProducts([]uint{1, 3}))
	require.NoError(t, err)
	assert.Equal(t, 16000.0, some.Total)
	for _, l := range some.Items {
		assert.Equal(t, l.ProductID != 2, l.Selected)
		assert.Equal(t, l.Price*float64(l.Quantity), l.Subtotal)
	}

	none, _, err := svc.View(ctx, uintPtr(1), nil, services.SelectProducts(nil))
	require.NoError(t, err)
	assert.Zero(t, none.Total)
}

func TestCartService_AddLineKeepsOneLinePerProduct(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	_, err := svc.AddLine(ctx, 1, 4, 1)
	require.NoError(t, err)
	item, err := svc.AddLine(ctx, 1, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	view, _, err := svc.View(ctx, uintPtr(1), nil, services.Selection{})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{4: 4}, quantities(view))
}

func TestCartService_AddLineValidation(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	_, err := svc.AddLine(ctx, 1, 1, 0)
	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.AddLine(ctx, 1, 42, 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCartService_SetQuantity(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	item, err := svc.AddLine(ctx, 1, 2, 1)
	require.NoError(t, err)

	require.NoError(t, svc.SetQuantity(ctx, 1, item.ID, 5))
	view, _, err := svc.View(ctx, uintPtr(1), nil, services.Selection{})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{2: 5}, quantities(view))

	var verr *services.ValidationError
	assert.ErrorAs(t, svc.SetQuantity(ctx, 1, item.ID, 0), &verr)

	// Another customer cannot touch the line.
	assert.ErrorIs(t, svc.SetQuantity(ctx, 2, item.ID, 3), repositories.ErrNotFound)

	require.NoError(t, svc.SetProductQuantity(ctx, 1, 2, 7))
	assert.ErrorIs(t, svc.SetProductQuantity(ctx, 1, 3, 1), repositories.ErrNotFound)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	first, err := svc.AddLine(ctx, 1, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, 1, 2, 1)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, 1, 3, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLine(ctx, 1, first.ID))
	require.NoError(t, svc.RemoveProducts(ctx, 1, []uint{2}))
	view, _, err := svc.View(ctx, uintPtr(1), nil, services.Selection{})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{3: 1}, quantities(view))

	require.NoError(t, svc.Clear(ctx, 1))
	view, _, err = svc.View(ctx, uintPtr(1), nil, services.Selection{})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_AddGuestLine(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	svc := services.NewCartService(store.Carts, store.Products, zap.NewNop())

	guest, err := svc.AddGuestLine(ctx, nil, 1, 1)
	require.NoError(t, err)
	guest, err = svc.AddGuestLine(ctx, guest, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.GuestLine{{ProductID: 1, Quantity: 3}}, guest)

	_, err = svc.AddGuestLine(ctx, guest, 77, 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
