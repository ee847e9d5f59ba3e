package models

import "time"

// Order statuses. Delivered and cancelled are terminal.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// orderProgress is the forward order of the non-cancelled statuses.
var orderProgress = map[string]int{
	OrderPending:    0,
	OrderProcessing: 1,
	OrderShipped:    2,
	OrderDelivered:  3,
}

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"index"`
	ProductID uint    `json:"product_id" gorm:"index"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"` // Price at the time of order
}

// Order represents a customer order. Only Status changes after creation.
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	CustomerID  uint        `json:"customer_id" gorm:"index"`
	Subtotal    float64     `json:"subtotal"`
	ShippingFee float64     `json:"shipping_fee"`
	Discount    float64     `json:"discount"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status" gorm:"type:varchar(20);index"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment     *Payment    `json:"payment,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	_, ok := orderProgress[s]
	return ok || s == OrderCancelled
}

// IsTerminalOrderStatus reports whether no further transition is allowed.
func IsTerminalOrderStatus(s string) bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionOrder reports whether an order may move from one status to
// another. Moves go forward only (skipping steps is allowed) and any
// non-terminal order may be cancelled.
func CanTransitionOrder(from, to string) bool {
	if !ValidOrderStatus(from) || !ValidOrderStatus(to) || from == to {
		return false
	}
	if IsTerminalOrderStatus(from) {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	return orderProgress[to] > orderProgress[from]
}
