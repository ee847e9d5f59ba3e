package models

import "time"

// Category groups products. Products reference it by id only; deleting a
// category leaves its products in place.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"category_name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Description string    `json:"description" validate:"omitempty,max=1000"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
