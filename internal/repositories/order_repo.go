package repositories

import (
	"context"

	"shopfront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Place writes the order, its Items and its Payment as one unit: either
	// all three are stored or none is.
	Place(ctx context.Context, order *models.Order) error
	// List returns matching orders with items and payment, newest first.
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	// UpdateStatus moves an order from one status to another. It fails with
	// ErrConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uint, from, to string) error
	Count(ctx context.Context, filter models.OrderFilter) (int64, error)
	// Revenue sums the totals of every order that is not cancelled.
	Revenue(ctx context.Context) (float64, error)
}
