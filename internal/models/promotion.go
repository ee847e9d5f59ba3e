package models

import "time"

// Promotion statuses.
const (
	PromotionActive   = "active"
	PromotionInactive = "inactive"
	PromotionExpired  = "expired"
)

// Promotion is a standalone discount-code ledger entry. QuantityLimit 0
// means unlimited.
type Promotion struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Code          string    `json:"code" gorm:"uniqueIndex;type:varchar(50)" validate:"required,max=50"`
	Description   string    `json:"description" validate:"omitempty,max=1000"`
	Category      string    `json:"category" validate:"omitempty,max=100"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	QuantityLimit int       `json:"quantity_limit" validate:"gte=0"`
	QuantityUsed  int       `json:"quantity_used" validate:"gte=0"`
	Status        string    `json:"status" gorm:"type:varchar(16)" validate:"oneof=active inactive expired"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
