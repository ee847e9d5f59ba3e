package services

import (
	"context"
	"strings"

	"shopfront/internal/models"
	"shopfront/internal/repositories"
)

// CategoryService manages product categories. Deleting a category leaves
// its products untouched.
type CategoryService struct {
	repo repositories.CategoryRepository
}

func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) ListCategories(ctx context.Context, filter models.CategoryFilter) ([]models.Category, error) {
	return s.repo.List(ctx, filter)
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, c *models.Category) error {
	c.ID = 0
	c.Name = strings.TrimSpace(c.Name)
	if err := validateStruct(c); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := validateStruct(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
