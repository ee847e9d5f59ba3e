package services_test

import (
	"context"
	"testing"

	"shopfront/internal/models"
	"shopfront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	admin := services.NewAdminService(f.store)

	p, err := f.store.Products.GetByID(ctx, 5)
	require.NoError(t, err)
	p.Status = models.ProductInactive
	require.NoError(t, f.store.Products.Update(ctx, p))

	kept, err := f.orders.Checkout(ctx, uintPtr(1), services.CheckoutRequest{
		Items: []services.CheckoutLine{{ProductID: 1, Quantity: 5, Price: 2000}},
	})
	require.NoError(t, err)
	cancelled, err := f.orders.Checkout(ctx, uintPtr(1), services.CheckoutRequest{
		Items: []services.CheckoutLine{{ProductID: 2, Quantity: 1, Price: 4000}},
	})
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderStatus(ctx, cancelled.ID, models.OrderCancelled)
	require.NoError(t, err)

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, services.Stats{
		TotalOrders:     2,
		TotalProducts:   5,
		TotalUsers:      0,
		TotalCategories: 1,
		ActiveProducts:  4,
		TotalRevenue:    kept.TotalAmount,
	}, *stats)
}

func TestAdminService_ListUsers(t *testing.T) {
	ctx := context.Background()
	store := newCatalog(t)
	auth := services.NewAuthService(store.Users, testSecret, 0, zap.NewNop())
	admin := services.NewAdminService(store)

	for _, u := range []models.User{
		{Username: "ann", Email: "ann@example.com", FullName: "Ann Lee", Role: models.RoleCustomer, IsActive: true},
		{Username: "ben", Email: "ben@example.com", FullName: "Ben Ng", Role: models.RoleStaff, IsActive: true},
		{Username: "cat", Email: "cat@example.com", FullName: "Cat Park", Role: models.RoleCustomer},
	} {
		user := u
		require.NoError(t, auth.CreateUser(ctx, &user, "password123"))
	}

	customers, err := admin.ListUsers(ctx, models.UserFilter{Role: models.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	active := false
	inactive, err := admin.ListUsers(ctx, models.UserFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "cat", inactive[0].Username)

	byName, err := admin.ListUsers(ctx, models.UserFilter{Search: "ng"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "ben", byName[0].Username)
}
