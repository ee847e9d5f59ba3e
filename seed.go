package main

import (
	"context"
	"fmt"

	"shopfront/internal/config"
	"shopfront/internal/models"
	"shopfront/internal/repositories"
	"shopfront/internal/services"

	"go.uber.org/zap"
)

// seedData fills an empty store with demo categories, products and one
// super admin account. A store that already has categories is left alone.
func seedData(ctx context.Context, cfg *config.Config, store *repositories.Store, auth *services.AuthService, log *zap.Logger) error {
	n, err := store.Categories.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if n > 0 {
		log.Info("Store already seeded, skipping")
		return nil
	}

	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, laptops and accessories"},
		{Name: "Fashion", Description: "Clothing and shoes"},
		{Name: "Home", Description: "Furniture and kitchen"},
	}
	for i := range categories {
		if err := store.Categories.Create(ctx, &categories[i]); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", categories[i].Name, err)
		}
	}

	products := []models.Product{
		{CategoryID: categories[0].ID, Name: "Laptop", Description: "High performance laptop", Price: 12000000, Stock: 10},
		{CategoryID: categories[0].ID, Name: "Mechanical Keyboard", Description: "Hot-swappable switches", Price: 750000, OldPrice: 900000, Discount: 17, Stock: 25},
		{CategoryID: categories[0].ID, Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Price: 250000, Stock: 50},
		{CategoryID: categories[1].ID, Name: "Denim Jacket", Price: 450000, Stock: 20},
		{CategoryID: categories[1].ID, Name: "Canvas Sneakers", Price: 10000, Stock: 40},
		{CategoryID: categories[2].ID, Name: "Ceramic Mug", Price: 35000, Stock: 100},
	}
	for i := range products {
		products[i].Status = models.ProductActive
		if err := store.Products.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
	}

	admin := &models.User{
		Username: "admin",
		Email:    cfg.AdminEmail,
		Role:     models.RoleSuperAdmin,
		FullName: "Store Administrator",
		IsActive: true,
	}
	if err := auth.CreateUser(ctx, admin, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	log.Info("Seeded demo data",
		zap.Int("categories", len(categories)),
		zap.Int("products", len(products)),
		zap.String("admin_email", admin.Email))
	return nil
}
