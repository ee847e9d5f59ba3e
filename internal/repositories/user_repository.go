package repositories

import (
	"context"

	"shopfront/internal/models"
)

// UserRepository defines the interface for user data access. Usernames and
// emails are unique; a duplicate fails with ErrConflict.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}
