package repositories

import (
	"context"

	"shopfront/internal/models"
)

// CartRepository defines the interface for persisted carts. Every method
// keeps (cart, product) unique among the lines of a cart.
type CartRepository interface {
	// GetOrCreate returns the cart of a customer with its lines, creating an
	// empty one on first use.
	GetOrCreate(ctx context.Context, customerID uint) (*models.Cart, error)
	// AddItem adds quantity to the line for productID, inserting it if absent.
	AddItem(ctx context.Context, cartID, productID uint, quantity int) (*models.CartItem, error)
	SetItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uint) error
	RemoveProducts(ctx context.Context, cartID uint, productIDs []uint) error
	Clear(ctx context.Context, cartID uint) error
}
