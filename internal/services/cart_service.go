package services

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/models"
	"shopfront/internal/repositories"
	"shopfront/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Selection is the set of products marked for checkout in a cart view.
// The zero value selects every line.
type Selection struct {
	ids map[uint]bool
}

// SelectProducts selects exactly the given products.
func SelectProducts(ids []uint) Selection {
	s := Selection{ids: make(map[uint]bool, len(ids))}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (s Selection) Has(productID uint) bool {
	return s.ids == nil || s.ids[productID]
}

// CartLineView is one line of a cart priced at the product's current price.
// A line whose product no longer exists is flagged Missing and not counted.
type CartLineView struct {
	CartItemID  uint    `json:"cart_item_id,omitempty"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	OldPrice    float64 `json:"old_price,omitempty"`
	Discount    int     `json:"discount,omitempty"`
	Subtotal    float64 `json:"subtotal"`
	Selected    bool    `json:"selected"`
	Missing     bool    `json:"missing"`
}

// CartView is the authoritative cart of one request.
type CartView struct {
	CartID uint           `json:"cart_id,omitempty"`
	Guest  bool           `json:"guest"`
	Items  []CartLineView `json:"items"`
	Total  float64        `json:"total"`
}

// CartService implements cart reconciliation over the persisted carts.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	log      *zap.Logger
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, log *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

// View returns the cart of the request. For a customer, the guest lines are
// merged into the account cart first, one by one; rest holds the guest lines
// that are not merged yet and is empty once the merge completed. For an
// anonymous caller the guest lines are the cart and nothing is written.
func (s *CartService) View(ctx context.Context, customerID *uint, guest []models.GuestLine, sel Selection) (*CartView, []models.GuestLine, error) {
	if customerID == nil {
		view, err := s.guestView(ctx, guest, sel)
		return view, guest, err
	}

	if rest, err := s.merge(ctx, *customerID, guest); err != nil {
		return nil, rest, err
	}

	cart, err := s.carts.GetOrCreate(ctx, *customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}
	lines := make([]CartLineView, len(cart.Items))
	for i, it := range cart.Items {
		lines[i] = CartLineView{CartItemID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity}
	}
	view, err := s.price(ctx, lines, sel)
	if err != nil {
		return nil, nil, err
	}
	view.CartID = cart.ID
	return view, nil, nil
}

// merge adds the guest lines to the account cart in order. Lines that can
// never merge (unknown product, bad quantity) are dropped; a storage failure
// stops the merge and returns the lines from the failed one onwards.
func (s *CartService) merge(ctx context.Context, customerID uint, guest []models.GuestLine) ([]models.GuestLine, error) {
	for i, line := range guest {
		_, err := s.AddLine(ctx, customerID, line.ProductID, line.Quantity)
		switch {
		case err == nil:
			metrics.CartLinesMerged.Inc()
		case isValidation(err) || errors.Is(err, repositories.ErrNotFound):
			s.log.Warn("Dropping guest cart line",
				zap.Uint("customer_id", customerID),
				zap.Uint("product_id", line.ProductID),
				zap.Error(err))
		default:
			s.log.Error("Guest cart merge interrupted",
				zap.Uint("customer_id", customerID),
				zap.Int("merged", i),
				zap.Error(err))
			return guest[i:], err
		}
	}
	return nil, nil
}

func (s *CartService) guestView(ctx context.Context, guest []models.GuestLine, sel Selection) (*CartView, error) {
	lines := make([]CartLineView, 0, len(guest))
	for _, g := range guest {
		if g.Quantity < 1 {
			continue
		}
		lines = append(lines, CartLineView{ProductID: g.ProductID, Quantity: g.Quantity})
	}
	view, err := s.price(ctx, lines, sel)
	if err != nil {
		return nil, err
	}
	view.Guest = true
	return view, nil
}

// price fills the live product data of every line and computes the total
// over the selected lines whose product still exists.
func (s *CartService) price(ctx context.Context, lines []CartLineView, sel Selection) (*CartView, error) {
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	total := decimal.Zero
	for i := range lines {
		l := &lines[i]
		l.Selected = sel.Has(l.ProductID)
		p, ok := products[l.ProductID]
		if !ok {
			l.Missing = true
			continue
		}
		l.ProductName = p.Name
		l.ImageURL = p.ImageURL
		l.Price = p.Price
		l.OldPrice = p.OldPrice
		l.Discount = p.Discount
		subtotal := LineSubtotal(p.Price, l.Quantity)
		l.Subtotal = toFloat(subtotal)
		if l.Selected {
			total = total.Add(subtotal)
		}
	}
	return &CartView{Items: lines, Total: toFloat(total)}, nil
}

func (s *CartService) checkProduct(ctx context.Context, productID uint, quantity int) error {
	if quantity < 1 {
		return invalidField("quantity", "quantity must be at least 1")
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive() {
		return invalidField("product_id", "product %d is not available", productID)
	}
	return nil
}

// AddLine adds quantity of a product to the customer's cart, incrementing
// the existing line if there is one. The cart is created on first use.
func (s *CartService) AddLine(ctx context.Context, customerID, productID uint, quantity int) (*models.CartItem, error) {
	if err := s.checkProduct(ctx, productID, quantity); err != nil {
		return nil, err
	}
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.carts.AddItem(ctx, cart.ID, productID, quantity)
}

// AddGuestLine applies the same rule to an anonymous cart.
func (s *CartService) AddGuestLine(ctx context.Context, guest []models.GuestLine, productID uint, quantity int) ([]models.GuestLine, error) {
	if err := s.checkProduct(ctx, productID, quantity); err != nil {
		return guest, err
	}
	return models.AddGuestLine(guest, productID, quantity), nil
}

// SetQuantity sets the quantity of one line of the customer's cart.
func (s *CartService) SetQuantity(ctx context.Context, customerID, lineID uint, quantity int) error {
	if quantity < 1 {
		return invalidField("quantity", "quantity must be at least 1")
	}
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	return s.carts.SetItemQuantity(ctx, cart.ID, lineID, quantity)
}

// SetProductQuantity is SetQuantity addressed by product id.
func (s *CartService) SetProductQuantity(ctx context.Context, customerID, productID uint, quantity int) error {
	if quantity < 1 {
		return invalidField("quantity", "quantity must be at least 1")
	}
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	for _, it := range cart.Items {
		if it.ProductID == productID {
			return s.carts.SetItemQuantity(ctx, cart.ID, it.ID, quantity)
		}
	}
	return fmt.Errorf("product %d is not in the cart: %w", productID, repositories.ErrNotFound)
}

func (s *CartService) RemoveLine(ctx context.Context, customerID, lineID uint) error {
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	return s.carts.RemoveItem(ctx, cart.ID, lineID)
}

func (s *CartService) Clear(ctx context.Context, customerID uint) error {
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	return s.carts.Clear(ctx, cart.ID)
}

// RemoveProducts drops the lines of the given products from the cart.
func (s *CartService) RemoveProducts(ctx context.Context, customerID uint, productIDs []uint) error {
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	return s.carts.RemoveProducts(ctx, cart.ID, productIDs)
}

func isValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
