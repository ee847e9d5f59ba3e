package repositories

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"shopfront/internal/models"
)

// MockOrderRepository stores orders, order lines and payments in three JSON
// tables. Place runs them as a saga: a failed step deletes what the earlier
// steps wrote.
type MockOrderRepository struct {
	orders   *jsonTable[models.Order]
	items    *jsonTable[models.OrderItem]
	payments *jsonTable[models.Payment]
}

func NewMockOrderRepository(dir string) *MockOrderRepository {
	return &MockOrderRepository{
		orders: newJSONTable(dir, "orders",
			func(o *models.Order) uint { return o.ID },
			func(o *models.Order, id uint) { o.ID = id }),
		items: newJSONTable(dir, "order_items",
			func(i *models.OrderItem) uint { return i.ID },
			func(i *models.OrderItem, id uint) { i.ID = id }),
		payments: newJSONTable(dir, "payments",
			func(p *models.Payment) uint { return p.ID },
			func(p *models.Payment, id uint) { p.ID = id }),
	}
}

func (r *MockOrderRepository) Place(_ context.Context, order *models.Order) error {
	items, payment := order.Items, order.Payment
	if payment == nil {
		return fmt.Errorf("order without payment")
	}

	now := time.Now()
	head := *order
	head.Items, head.Payment = nil, nil
	head.CreatedAt, head.UpdatedAt = now, now
	if err := r.orders.insert(&head); err != nil {
		return fmt.Errorf("failed to place order: insert order: %w", err)
	}

	stored := make([]models.OrderItem, len(items))
	err := r.items.mutate(func(rows []models.OrderItem) ([]models.OrderItem, error) {
		var last uint
		for i := range rows {
			last = max(last, rows[i].ID)
		}
		for i, it := range items {
			it.ID = last + uint(i) + 1
			it.OrderID = head.ID
			stored[i] = it
		}
		return append(rows, stored...), nil
	})
	if err != nil {
		r.compensate(head.ID, false)
		return fmt.Errorf("failed to place order: insert order items: %w", err)
	}

	pay := *payment
	pay.OrderID = head.ID
	pay.CreatedAt = now
	if err := r.payments.insert(&pay); err != nil {
		r.compensate(head.ID, true)
		return fmt.Errorf("failed to place order: insert payment: %w", err)
	}

	*order = head
	order.Items = stored
	order.Payment = &pay
	return nil
}

// compensate undoes a partially placed order, best effort. Lines left
// behind are unreachable once the order row is gone.
func (r *MockOrderRepository) compensate(orderID uint, withItems bool) {
	if withItems {
		_, _ = r.items.removeWhere(func(i *models.OrderItem) bool { return i.OrderID == orderID })
	}
	_ = r.orders.remove(orderID)
}

func (r *MockOrderRepository) hydrate(orders []models.Order) ([]models.Order, error) {
	items, err := r.items.snapshot()
	if err != nil {
		return nil, err
	}
	payments, err := r.payments.snapshot()
	if err != nil {
		return nil, err
	}
	byOrder := make(map[uint][]models.OrderItem)
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	payByOrder := make(map[uint]models.Payment, len(payments))
	for _, p := range payments {
		payByOrder[p.OrderID] = p
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if p, ok := payByOrder[orders[i].ID]; ok {
			orders[i].Payment = &p
		}
	}
	return orders, nil
}

func (r *MockOrderRepository) List(_ context.Context, filter models.OrderFilter) ([]models.Order, error) {
	orders, err := r.orders.filter(filter.Match)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(orders, func(a, b models.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return r.hydrate(orders)
}

func (r *MockOrderRepository) GetByID(_ context.Context, id uint) (*models.Order, error) {
	order, err := r.orders.get(id)
	if err != nil {
		return nil, lookupError("order", id, err)
	}
	orders, err := r.hydrate([]models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *MockOrderRepository) UpdateStatus(_ context.Context, id uint, from, to string) error {
	err := r.orders.update(id, func(o *models.Order) error {
		if o.Status != from {
			return fmt.Errorf("order %d is no longer %s: %w", id, from, ErrConflict)
		}
		o.Status = to
		o.UpdatedAt = time.Now()
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return notFound("order", id)
	}
	return err
}

func (r *MockOrderRepository) Count(_ context.Context, filter models.OrderFilter) (int64, error) {
	orders, err := r.orders.filter(filter.Match)
	return int64(len(orders)), err
}

func (r *MockOrderRepository) Revenue(_ context.Context) (float64, error) {
	orders, err := r.orders.snapshot()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, o := range orders {
		if o.Status != models.OrderCancelled {
			total += o.TotalAmount
		}
	}
	return total, nil
}
