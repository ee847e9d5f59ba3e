package repositories

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"shopfront/internal/models"
)

// MockCartRepository keeps carts and cart lines in two JSON tables.
type MockCartRepository struct {
	carts *jsonTable[models.Cart]
	items *jsonTable[models.CartItem]
}

func NewMockCartRepository(dir string) *MockCartRepository {
	return &MockCartRepository{
		carts: newJSONTable(dir, "carts",
			func(c *models.Cart) uint { return c.ID },
			func(c *models.Cart, id uint) { c.ID = id }),
		items: newJSONTable(dir, "cart_items",
			func(i *models.CartItem) uint { return i.ID },
			func(i *models.CartItem, id uint) { i.ID = id }),
	}
}

// GetOrCreate only writes the carts table when the customer has no cart yet.
func (r *MockCartRepository) GetOrCreate(_ context.Context, customerID uint) (*models.Cart, error) {
	existing, err := r.carts.first(func(c *models.Cart) bool { return c.CustomerID == customerID })
	switch {
	case err == nil:
		return r.withItems(*existing)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	var cart models.Cart
	err = r.carts.mutate(func(rows []models.Cart) ([]models.Cart, error) {
		var last uint
		for _, c := range rows {
			if c.CustomerID == customerID {
				cart = c
				return rows, nil
			}
			last = max(last, c.ID)
		}
		now := time.Now()
		cart = models.Cart{ID: last + 1, CustomerID: customerID, CreatedAt: now, UpdatedAt: now}
		return append(rows, cart), nil
	})
	if err != nil {
		return nil, err
	}
	return r.withItems(cart)
}

func (r *MockCartRepository) withItems(cart models.Cart) (*models.Cart, error) {
	lines, err := r.items.filter(func(i *models.CartItem) bool { return i.CartID == cart.ID })
	if err != nil {
		return nil, err
	}
	slices.SortFunc(lines, func(a, b models.CartItem) int { return cmp.Compare(a.ID, b.ID) })
	cart.Items = lines
	return &cart, nil
}

func (r *MockCartRepository) AddItem(_ context.Context, cartID, productID uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.items.mutate(func(rows []models.CartItem) ([]models.CartItem, error) {
		var last uint
		now := time.Now()
		for i := range rows {
			if rows[i].CartID == cartID && rows[i].ProductID == productID {
				rows[i].Quantity += quantity
				rows[i].UpdatedAt = now
				item = rows[i]
				return rows, nil
			}
			last = max(last, rows[i].ID)
		}
		item = models.CartItem{
			ID:        last + 1,
			CartID:    cartID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return append(rows, item), nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MockCartRepository) SetItemQuantity(_ context.Context, cartID, itemID uint, quantity int) error {
	err := r.items.update(itemID, func(i *models.CartItem) error {
		if i.CartID != cartID {
			return ErrNotFound
		}
		i.Quantity = quantity
		i.UpdatedAt = time.Now()
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return notFound("cart item", itemID)
	}
	return err
}

func (r *MockCartRepository) RemoveItem(_ context.Context, cartID, itemID uint) error {
	n, err := r.items.removeWhere(func(i *models.CartItem) bool { return i.ID == itemID && i.CartID == cartID })
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("cart item", itemID)
	}
	return nil
}

func (r *MockCartRepository) RemoveProducts(_ context.Context, cartID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := r.items.removeWhere(func(i *models.CartItem) bool {
		return i.CartID == cartID && slices.Contains(productIDs, i.ProductID)
	})
	return err
}

func (r *MockCartRepository) Clear(_ context.Context, cartID uint) error {
	_, err := r.items.removeWhere(func(i *models.CartItem) bool { return i.CartID == cartID })
	return err
}
