package models

import "time"

// Cart is the persisted cart of one customer. There is at most one per
// customer id.
type Cart struct {
	ID         uint       `json:"cart_id" gorm:"primaryKey"`
	CustomerID uint       `json:"customer_id" gorm:"uniqueIndex"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem is one line of a persisted cart. (CartID, ProductID) is unique.
type CartItem struct {
	ID        uint      `json:"cart_item_id" gorm:"primaryKey"`
	CartID    uint      `json:"cart_id" gorm:"uniqueIndex:idx_cart_product"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex:idx_cart_product"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GuestLine is one line of an anonymous cart held by the client.
type GuestLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// AddGuestLine applies the add-or-increment rule to an anonymous cart.
func AddGuestLine(lines []GuestLine, productID uint, quantity int) []GuestLine {
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			return lines
		}
	}
	return append(lines, GuestLine{ProductID: productID, Quantity: quantity})
}
