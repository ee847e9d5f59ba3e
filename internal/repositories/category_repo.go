package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, error) {
	q := r.db.WithContext(ctx)
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	var categories []models.Category
	if err := q.Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *GORMCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if translateError(err) == ErrNotFound {
			return nil, notFound("category", id)
		}
		return nil, fmt.Errorf("failed to get category by ID %d: %w", id, err)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", translateError(err))
	}
	return nil
}

func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(&models.Category{ID: category.ID}).
		Select("*").Omit("id", "created_at").Updates(category)
	if res.Error != nil {
		return fmt.Errorf("failed to update category: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return notFound("category", category.ID)
	}
	return nil
}

func (r *GORMCategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("category", id)
	}
	return nil
}

func (r *GORMCategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

// MockCategoryRepository is a JSON-file implementation of CategoryRepository.
type MockCategoryRepository struct {
	table *jsonTable[models.Category]
}

func NewMockCategoryRepository(dir string) *MockCategoryRepository {
	return &MockCategoryRepository{
		table: newJSONTable(dir, "categories",
			func(c *models.Category) uint { return c.ID },
			func(c *models.Category, id uint) { c.ID = id }),
	}
}

func (r *MockCategoryRepository) List(_ context.Context, filter models.CategoryFilter) ([]models.Category, error) {
	return r.table.filter(filter.Match)
}

func (r *MockCategoryRepository) GetByID(_ context.Context, id uint) (*models.Category, error) {
	category, err := r.table.get(id)
	if err != nil {
		return nil, lookupError("category", id, err)
	}
	return category, nil
}

func (r *MockCategoryRepository) Create(_ context.Context, category *models.Category) error {
	now := time.Now()
	category.CreatedAt, category.UpdatedAt = now, now
	return r.table.insert(category)
}

func (r *MockCategoryRepository) Update(_ context.Context, category *models.Category) error {
	err := r.table.update(category.ID, func(stored *models.Category) error {
		category.CreatedAt = stored.CreatedAt
		category.UpdatedAt = time.Now()
		*stored = *category
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return notFound("category", category.ID)
	}
	return err
}

func (r *MockCategoryRepository) Delete(_ context.Context, id uint) error {
	err := r.table.remove(id)
	if errors.Is(err, ErrNotFound) {
		return notFound("category", id)
	}
	return err
}

func (r *MockCategoryRepository) Count(_ context.Context) (int64, error) {
	rows, err := r.table.snapshot()
	return int64(len(rows)), err
}
