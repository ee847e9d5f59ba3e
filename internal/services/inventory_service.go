package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"shopfront/internal/events"
	"shopfront/internal/repositories"

	"go.uber.org/zap"
)

const seenEventsCapacity = 1024

// InventoryService applies committed orders to product stock. It consumes
// order.placed events; stock is decremented by the ordered quantities and
// never drops below zero.
type InventoryService struct {
	products repositories.ProductRepository
	log      *zap.Logger

	mu   sync.Mutex
	seen map[string]struct{}
	ring []string
	next int
}

func NewInventoryService(products repositories.ProductRepository, log *zap.Logger) *InventoryService {
	return &InventoryService{
		products: products,
		log:      log,
		seen:     make(map[string]struct{}, seenEventsCapacity),
		ring:     make([]string, seenEventsCapacity),
	}
}

// remember records an event id and reports whether it was new. Only the
// most recent ids are kept.
func (s *InventoryService) remember(id string) bool {
	if id == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[id]; dup {
		return false
	}
	if old := s.ring[s.next]; old != "" {
		delete(s.seen, old)
	}
	s.ring[s.next] = id
	s.next = (s.next + 1) % len(s.ring)
	s.seen[id] = struct{}{}
	return true
}

func (s *InventoryService) forget(id string) {
	s.mu.Lock()
	delete(s.seen, id)
	s.mu.Unlock()
}

// HandleOrderPlaced is an events.Handler. Redelivered events are ignored.
func (s *InventoryService) HandleOrderPlaced(ctx context.Context, evt events.OrderPlaced) error {
	if !s.remember(evt.EventID) {
		s.log.Debug("Skipping duplicate order event", zap.String("event_id", evt.EventID))
		return nil
	}
	for _, line := range evt.Lines {
		err := s.products.AdjustStock(ctx, line.ProductID, -line.Quantity)
		switch {
		case err == nil:
		case errors.Is(err, repositories.ErrNotFound):
			s.log.Warn("Ordered product no longer exists",
				zap.Uint("order_id", evt.OrderID), zap.Uint("product_id", line.ProductID))
		default:
			s.forget(evt.EventID)
			return fmt.Errorf("failed to decrement stock for order %d: %w", evt.OrderID, err)
		}
	}
	s.log.Info("Stock reconciled", zap.Uint("order_id", evt.OrderID), zap.Int("lines", len(evt.Lines)))
	return nil
}
