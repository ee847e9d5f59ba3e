package models

import "time"

// Blog statuses.
const (
	BlogActive   = "active"
	BlogInactive = "inactive"
)

// Blog is an editorial post managed from the admin surface.
type Blog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"admin_id" gorm:"index"`
	Title     string    `json:"title" validate:"required,max=255"`
	Content   string    `json:"content" validate:"required"`
	Category  string    `json:"category" validate:"omitempty,max=100"`
	Summary   string    `json:"summary" validate:"omitempty,max=1000"`
	ImageURL  string    `json:"image_url"`
	Published bool      `json:"published"`
	Status    string    `json:"status" gorm:"type:varchar(16)" validate:"oneof=active inactive"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
