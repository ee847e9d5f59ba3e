package services

import (
	"context"
	"fmt"

	"shopfront/internal/models"
	"shopfront/internal/repositories"
)

// Stats is the dashboard summary of the admin surface.
type Stats struct {
	TotalOrders     int64   `json:"total_orders"`
	TotalProducts   int64   `json:"total_products"`
	TotalUsers      int64   `json:"total_users"`
	TotalCategories int64   `json:"total_categories"`
	ActiveProducts  int64   `json:"active_products"`
	TotalRevenue    float64 `json:"total_revenue"`
}

// AdminService serves the read-only admin views that span several stores.
type AdminService struct {
	store *repositories.Store
}

func NewAdminService(store *repositories.Store) *AdminService {
	return &AdminService{store: store}
}

// Stats counts the stores. Revenue excludes cancelled orders.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.TotalOrders, err = s.store.Orders.Count(ctx, models.OrderFilter{}); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if st.TotalProducts, err = s.store.Products.Count(ctx, models.ProductFilter{}); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if st.ActiveProducts, err = s.store.Products.Count(ctx, models.ProductFilter{Status: models.ProductActive}); err != nil {
		return nil, fmt.Errorf("failed to count active products: %w", err)
	}
	if st.TotalUsers, err = s.store.Users.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if st.TotalCategories, err = s.store.Categories.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	if st.TotalRevenue, err = s.store.Orders.Revenue(ctx); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return &st, nil
}

// ListUsers lists the accounts matching filter.
func (s *AdminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return s.store.Users.List(ctx, filter)
}
