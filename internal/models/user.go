package models

import "time"

// User represents a user of the store.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Username      string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email         string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password      string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash
	Role          Role      `json:"role" gorm:"type:varchar(20);index" validate:"required,oneof=customer staff admin super_admin"`
	FullName      string    `json:"full_name" validate:"omitempty,max=150"`
	Phone         string    `json:"phone" validate:"omitempty,max=30"`
	Address       string    `json:"address" validate:"omitempty,max=500"`
	Gender        string    `json:"gender"`
	DateOfBirth   string    `json:"date_of_birth"`
	LoyaltyPoints int       `json:"loyalty_points"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Can reports whether the user holds at least the given tier. Inactive
// accounts hold no tier at all.
func (u *User) Can(t Tier) bool {
	if u == nil || !u.IsActive {
		return false
	}
	return u.Role.Tier() >= t
}
