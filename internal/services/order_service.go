package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"shopfront/internal/events"
	"shopfront/internal/models"
	"shopfront/internal/repositories"
	"shopfront/pkg/metrics"

	"go.uber.org/zap"
)

// CheckoutLine is one line of a checkout request as declared by the client.
type CheckoutLine struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CheckoutRequest is the body of a checkout.
type CheckoutRequest struct {
	Items         []CheckoutLine `json:"items"`
	PaymentMethod string         `json:"payment_method"`
}

// OrderService handles checkout and order reads.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cart        *CartService
	publisher   events.Publisher
	pricing     Pricing
	log         *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, cart *CartService, publisher events.Publisher, pricing Pricing, log *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cart:        cart,
		publisher:   publisher,
		pricing:     pricing,
		log:         log,
	}
}

// validateLines rejects malformed lines and folds repeated products into
// one line.
func validateLines(items []CheckoutLine) ([]CheckoutLine, error) {
	if len(items) == 0 {
		return nil, invalidField("items", "no items selected for checkout")
	}
	fields := map[string]string{}
	merged := make([]CheckoutLine, 0, len(items))
	index := map[uint]int{}
	for i, it := range items {
		switch {
		case it.ProductID == 0:
			fields[fmt.Sprintf("items[%d].product_id", i)] = "product_id is required"
		case it.Quantity < 1:
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be at least 1"
		case it.Price <= 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0):
			fields[fmt.Sprintf("items[%d].price", i)] = "price must be a positive number"
		default:
			if j, ok := index[it.ProductID]; ok {
				merged[j].Quantity += it.Quantity
				continue
			}
			index[it.ProductID] = len(merged)
			merged = append(merged, it)
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Message: "invalid order lines", Fields: fields}
	}
	return merged, nil
}

// Quote prices the lines at the current product prices. A declared price
// that differs from the product price is replaced and logged.
func (s *OrderService) Quote(ctx context.Context, items []CheckoutLine) ([]PricedLine, Quote, error) {
	lines, err := validateLines(items)
	if err != nil {
		return nil, Quote{}, err
	}

	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, Quote{}, fmt.Errorf("failed to load products: %w", err)
	}

	priced := make([]PricedLine, len(lines))
	for i, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			return nil, Quote{}, fmt.Errorf("product %d: %w", l.ProductID, repositories.ErrNotFound)
		}
		if !p.IsActive() {
			return nil, Quote{}, invalidField("product_id", "product %d is not available", l.ProductID)
		}
		if p.Price != l.Price {
			s.log.Warn("Checkout price mismatch, using catalogue price",
				zap.Uint("product_id", l.ProductID),
				zap.Float64("declared", l.Price),
				zap.Float64("catalogue", p.Price))
		}
		priced[i] = PricedLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: p.Price}
	}
	return priced, s.pricing.Quote(priced), nil
}

// Checkout turns the selected lines into an order with its lines and
// payment, all stored as one unit. Once stored, the lines are removed from
// the customer's cart and an order event is published; failures of either
// step are logged and do not affect the order.
func (s *OrderService) Checkout(ctx context.Context, customerID *uint, req CheckoutRequest) (*models.Order, error) {
	if customerID == nil {
		return nil, ErrUnauthenticated
	}

	lines, quote, err := s.Quote(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID:  *customerID,
		Subtotal:    toFloat(quote.Subtotal),
		ShippingFee: toFloat(quote.ShippingFee),
		Discount:    toFloat(quote.Discount),
		TotalAmount: toFloat(quote.Total),
		Status:      models.OrderPending,
		Payment: &models.Payment{
			Method: models.NormalizePaymentMethod(req.PaymentMethod),
			Status: models.PaymentPending,
			Amount: toFloat(quote.Total),
		},
	}
	productIDs := make([]uint, len(lines))
	for i, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
		productIDs[i] = l.ProductID
	}

	if err := s.orderRepo.Place(ctx, order); err != nil {
		s.log.Error("Failed to place order", zap.Uint("customer_id", *customerID), zap.Error(err))
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues(string(order.Payment.Method)).Inc()

	if s.cart != nil {
		if err := s.cart.RemoveProducts(ctx, *customerID, productIDs); err != nil {
			s.log.Warn("Failed to remove ordered lines from cart",
				zap.Uint("order_id", order.ID), zap.Error(err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order)); err != nil {
			s.log.Warn("Failed to publish order event", zap.Uint("order_id", order.ID), zap.Error(err))
		}
	}

	s.log.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("customer_id", order.CustomerID),
		zap.Float64("total", order.TotalAmount))
	return order, nil
}

// History lists the customer's own orders, newest first.
func (s *OrderService) History(ctx context.Context, customerID *uint) ([]models.Order, error) {
	if customerID == nil {
		return nil, ErrUnauthenticated
	}
	return s.orderRepo.List(ctx, models.OrderFilter{CustomerID: *customerID})
}

// Detail returns one of the customer's own orders.
func (s *OrderService) Detail(ctx context.Context, customerID *uint, orderID uint) (*models.Order, error) {
	if customerID == nil {
		return nil, ErrUnauthenticated
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != *customerID {
		return nil, fmt.Errorf("order %d belongs to another customer: %w", orderID, ErrForbidden)
	}
	return order, nil
}

// ListOrders lists every order matching filter.
func (s *OrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	return s.orderRepo.List(ctx, filter)
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// UpdateOrderStatus moves an order along its status machine.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, invalidField("status", "invalid order status: %s", status)
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionOrder(order.Status, status) {
		return nil, invalidField("status", "cannot move order from %s to %s", order.Status, status)
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, order.Status, status); err != nil {
		if !errors.Is(err, repositories.ErrConflict) && !errors.Is(err, repositories.ErrNotFound) {
			s.log.Error("Failed to update order status", zap.Uint("order_id", id), zap.Error(err))
		}
		return nil, err
	}
	s.log.Info("Order status updated", zap.Uint("order_id", id), zap.String("from", order.Status), zap.String("to", status))
	order.Status = status
	return order, nil
}
