package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shopfront/internal/models"
	"shopfront/internal/repositories"
	"shopfront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

const testSecret = "test_secret_key"

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testSecret, time.Hour, zap.NewNop())

	input := services.RegisterInput{
		Username: "testuser",
		Email:    "Test@Example.com",
		Password: "password123",
		FullName: "Test User",
	}

	// Test case 1: Successful registration
	mockRepo.On("GetByUsername", ctx, "testuser").Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, notFound("user")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Test case 2: Username already taken
	mockRepo.On("GetByUsername", ctx, "testuser").Return(&models.User{Username: "testuser"}, nil).Once()
	_, err = authService.RegisterUser(ctx, input)
	assert.ErrorIs(t, err, repositories.ErrConflict)
	assert.Contains(t, err.Error(), "username 'testuser' already taken")

	// Test case 3: Email already registered
	mockRepo.On("GetByUsername", ctx, "testuser").Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{Email: "test@example.com"}, nil).Once()
	_, err = authService.RegisterUser(ctx, input)
	assert.ErrorIs(t, err, repositories.ErrConflict)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserValidation(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testSecret, time.Hour, zap.NewNop())

	_, err := authService.RegisterUser(context.Background(), services.RegisterInput{
		Username: "ab",
		Email:    "not-an-email",
		Password: "123",
		Gender:   "unknown",
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"username", "email", "password", "full_name", "gender"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testSecret, time.Hour, zap.NewNop())

	existingUser := &models.User{
		ID:       1,
		Username: "testuser",
		Email:    "test@example.com",
		Password: hashed(t, "password123"),
		Role:     models.RoleCustomer,
		IsActive: true,
	}

	// Test case 1: Successful login by username
	mockRepo.On("GetByUsername", ctx, "testuser").Return(existingUser, nil).Once()
	user, token, err := authService.LoginUser(ctx, "testuser", "password123")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.NotEmpty(t, token)

	// Test case 2: Successful login by email
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(existingUser, nil).Once()
	_, _, err = authService.LoginUser(ctx, "Test@Example.com", "password123")
	require.NoError(t, err)

	// Test case 3: User not found
	mockRepo.On("GetByUsername", ctx, "nonexistent").Return(nil, notFound("user")).Once()
	_, _, err = authService.LoginUser(ctx, "nonexistent", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	// Test case 4: Incorrect password
	mockRepo.On("GetByUsername", ctx, "testuser").Return(existingUser, nil).Once()
	_, _, err = authService.LoginUser(ctx, "testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Test case 5: Disabled account
	disabled := *existingUser
	disabled.IsActive = false
	mockRepo.On("GetByUsername", ctx, "disabled").Return(&disabled, nil).Once()
	_, _, err = authService.LoginUser(ctx, "disabled", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Test case 6: Storage failure looks like bad credentials to the caller
	mockRepo.On("GetByUsername", ctx, "broken").Return(nil, errors.New("connection reset")).Once()
	_, _, err = authService.LoginUser(ctx, "broken", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testSecret, time.Hour, zap.NewNop())

	// Test case 1: Valid token
	token, err := authService.IssueToken(&models.User{ID: 7, Username: "testuser"})
	require.NoError(t, err)
	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Test case 2: Token signed with another secret
	other := services.NewAuthService(new(MockUserRepository), "another_secret", time.Hour, zap.NewNop())
	foreign, err := other.IssueToken(&models.User{ID: 7})
	require.NoError(t, err)
	_, err = authService.ValidateToken(foreign)
	assert.Error(t, err)

	// Test case 3: Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = authService.ValidateToken(expiredString)
	assert.Error(t, err)

	// Test case 4: Garbage
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}

func TestAuthService_UserFromToken(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testSecret, time.Hour, zap.NewNop())

	active := &models.User{ID: 3, Username: "staff", Role: models.RoleStaff, IsActive: true}
	token, err := authService.IssueToken(active)
	require.NoError(t, err)

	// The role comes from the store, not from the token.
	promoted := *active
	promoted.Role = models.RoleSuperAdmin
	mockRepo.On("GetByID", ctx, uint(3)).Return(&promoted, nil).Once()
	user, err := authService.UserFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)

	disabled := *active
	disabled.IsActive = false
	mockRepo.On("GetByID", ctx, uint(3)).Return(&disabled, nil).Once()
	_, err = authService.UserFromToken(ctx, token)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	mockRepo.On("GetByID", ctx, uint(3)).Return(nil, notFound("user")).Once()
	_, err = authService.UserFromToken(ctx, token)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	mockRepo.AssertExpectations(t)
}
