package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/models"
)

// userRecord is the stored form of a user. models.User hides the password
// hash from JSON, the table must keep it.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func (rec userRecord) user() *models.User {
	u := rec.User
	u.Password = rec.PasswordHash
	return &u
}

// MockUserRepository is a JSON-file implementation of UserRepository.
type MockUserRepository struct {
	table *jsonTable[userRecord]
}

func NewMockUserRepository(dir string) *MockUserRepository {
	return &MockUserRepository{
		table: newJSONTable(dir, "users",
			func(u *userRecord) uint { return u.ID },
			func(u *userRecord, id uint) { u.ID = id }),
	}
}

func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	return r.table.mutate(func(rows []userRecord) ([]userRecord, error) {
		var last uint
		for _, u := range rows {
			if strings.EqualFold(u.Username, user.Username) {
				return nil, fmt.Errorf("username %q: %w", user.Username, ErrConflict)
			}
			if strings.EqualFold(u.Email, user.Email) {
				return nil, fmt.Errorf("email %q: %w", user.Email, ErrConflict)
			}
			last = max(last, u.ID)
		}
		now := time.Now()
		user.ID = last + 1
		user.CreatedAt, user.UpdatedAt = now, now
		return append(rows, userRecord{User: *user, PasswordHash: user.Password}), nil
	})
}

func (r *MockUserRepository) getBy(match func(*userRecord) bool, what string) (*models.User, error) {
	rec, err := r.table.first(match)
	if err != nil {
		return nil, fmt.Errorf("user with %s: %w", what, err)
	}
	return rec.user(), nil
}

func (r *MockUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.getBy(func(u *userRecord) bool { return strings.EqualFold(u.Username, username) }, "username "+username)
}

func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.getBy(func(u *userRecord) bool { return strings.EqualFold(u.Email, email) }, "email "+email)
}

func (r *MockUserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	return r.getBy(func(u *userRecord) bool { return u.ID == id }, fmt.Sprintf("id %d", id))
}

func (r *MockUserRepository) List(_ context.Context, filter models.UserFilter) ([]models.User, error) {
	rows, err := r.table.filter(func(u *userRecord) bool { return filter.Match(&u.User) })
	if err != nil {
		return nil, err
	}
	users := make([]models.User, len(rows))
	for i, rec := range rows {
		users[i] = *rec.user()
	}
	return users, nil
}

func (r *MockUserRepository) Count(_ context.Context) (int64, error) {
	rows, err := r.table.snapshot()
	return int64(len(rows)), err
}
