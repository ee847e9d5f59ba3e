// Package events defines the order events exchanged over the message broker
// and the contracts of their publishers and consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"shopfront/internal/models"

	"github.com/google/uuid"
)

// OrderPlacedType is the event type, queue name and default topic of
// committed orders.
const OrderPlacedType = "order.placed"

type OrderLine struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderPlaced is published once an order, its lines and its payment are
// committed.
type OrderPlaced struct {
	EventID       string      `json:"event_id"`
	Type          string      `json:"type"`
	OrderID       uint        `json:"order_id"`
	CustomerID    uint        `json:"customer_id"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"payment_method"`
	Lines         []OrderLine `json:"lines"`
	PlacedAt      time.Time   `json:"placed_at"`
}

// NewOrderPlaced builds the event of a committed order.
func NewOrderPlaced(order *models.Order) OrderPlaced {
	evt := OrderPlaced{
		EventID:    uuid.NewString(),
		Type:       OrderPlacedType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.TotalAmount,
		PlacedAt:   order.CreatedAt,
	}
	if order.Payment != nil {
		evt.PaymentMethod = string(order.Payment.Method)
	}
	for _, it := range order.Items {
		evt.Lines = append(evt.Lines, OrderLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return evt
}

// Decode parses an OrderPlaced message body.
func Decode(body []byte) (OrderPlaced, error) {
	var evt OrderPlaced
	if err := json.Unmarshal(body, &evt); err != nil {
		return evt, fmt.Errorf("failed to decode order event: %w", err)
	}
	if evt.Type != "" && evt.Type != OrderPlacedType {
		return evt, fmt.Errorf("unexpected event type %q", evt.Type)
	}
	return evt, nil
}

// Handler processes one event. A non-nil error asks the transport to
// redeliver.
type Handler func(ctx context.Context, evt OrderPlaced) error

// Publisher sends order events to the broker.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error
	Close() error
}

// Subscriber delivers order events to a handler until ctx is done.
type Subscriber interface {
	ConsumeOrderEvents(ctx context.Context, handler Handler) error
}

// InProcess delivers events synchronously to the handlers registered on it.
// It stands in for a broker when none is configured.
type InProcess struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewInProcess() *InProcess {
	return &InProcess{}
}

func (b *InProcess) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()
	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// ConsumeOrderEvents registers handler and returns immediately.
func (b *InProcess) ConsumeOrderEvents(_ context.Context, handler Handler) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()
	return nil
}

func (b *InProcess) Close() error { return nil }
