package models

import "time"

// Product statuses. Only the admin surface moves a product between them.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// Product represents a product in the store.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CategoryID  uint      `json:"category_id" gorm:"index" validate:"required"`
	Name        string    `json:"product_name" gorm:"type:varchar(200)" validate:"required,max=200"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Price       float64   `json:"price" validate:"gt=0"`
	OldPrice    float64   `json:"old_price" validate:"gte=0"`
	Discount    int       `json:"discount" validate:"gte=0,lte=100"` // percent
	Stock       int       `json:"stock" validate:"gte=0"`
	Status      string    `json:"status" gorm:"type:varchar(16);index" validate:"oneof=active inactive"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsActive reports whether the product is visible in the storefront.
func (p *Product) IsActive() bool {
	return p.Status == ProductActive
}
