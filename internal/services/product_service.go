package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopfront/internal/models"
	"shopfront/internal/repositories"

	"go.uber.org/zap"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
	log        *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository, log *zap.Logger) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		log:        log,
	}
}

// ListProducts retrieves the products matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return s.repo.List(ctx, filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ProductsByCategory lists the active products of an existing category.
func (s *ProductService) ProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, models.ProductFilter{CategoryID: categoryID, Status: models.ProductActive})
}

func (s *ProductService) validate(ctx context.Context, p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Status == "" {
		p.Status = models.ProductActive
	}
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.Discount > 0 && p.OldPrice < p.Price {
		return invalidField("old_price", "old_price must be at least price when a discount is set")
	}
	if _, err := s.categories.GetByID(ctx, p.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return invalidField("category_id", "category %d does not exist", p.CategoryID)
		}
		return err
	}
	return nil
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := s.validate(ctx, product); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	s.log.Info("Product created", zap.Uint("product_id", product.ID))
	return nil
}

// UpdateProduct validates and overwrites an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if _, err := s.repo.GetByID(ctx, product.ID); err != nil {
		return err
	}
	if err := s.validate(ctx, product); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	s.log.Info("Product updated", zap.Uint("product_id", product.ID))
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Product deleted", zap.Uint("product_id", id))
	return nil
}
