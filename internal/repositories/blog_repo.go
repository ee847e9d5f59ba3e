package repositories

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"shopfront/internal/models"

	"gorm.io/gorm"
)

// BlogRepository defines the interface for blog data access.
type BlogRepository interface {
	// List returns matching posts, newest first.
	List(ctx context.Context, filter models.BlogFilter) ([]models.Blog, error)
	GetByID(ctx context.Context, id uint) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) error
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
}

type GORMBlogRepository struct {
	db *gorm.DB
}

func NewGORMBlogRepository(db *gorm.DB) *GORMBlogRepository {
	return &GORMBlogRepository{db: db}
}

func (r *GORMBlogRepository) List(ctx context.Context, f models.BlogFilter) ([]models.Blog, error) {
	q := r.db.WithContext(ctx)
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	var blogs []models.Blog
	if err := q.Order("created_at DESC, id DESC").Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, nil
}

func (r *GORMBlogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).First(&blog, id).Error; err != nil {
		if translateError(err) == ErrNotFound {
			return nil, notFound("blog", id)
		}
		return nil, fmt.Errorf("failed to get blog by ID %d: %w", id, err)
	}
	return &blog, nil
}

func (r *GORMBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return fmt.Errorf("failed to create blog: %w", translateError(err))
	}
	return nil
}

func (r *GORMBlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	res := r.db.WithContext(ctx).Model(&models.Blog{ID: blog.ID}).
		Select("*").Omit("id", "created_at").Updates(blog)
	if res.Error != nil {
		return fmt.Errorf("failed to update blog: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return notFound("blog", blog.ID)
	}
	return nil
}

func (r *GORMBlogRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Blog{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete blog: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("blog", id)
	}
	return nil
}

type MockBlogRepository struct {
	table *jsonTable[models.Blog]
}

func NewMockBlogRepository(dir string) *MockBlogRepository {
	return &MockBlogRepository{
		table: newJSONTable(dir, "blogs",
			func(b *models.Blog) uint { return b.ID },
			func(b *models.Blog, id uint) { b.ID = id }),
	}
}

func (r *MockBlogRepository) List(_ context.Context, filter models.BlogFilter) ([]models.Blog, error) {
	blogs, err := r.table.filter(filter.Match)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(blogs, func(a, b models.Blog) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return blogs, nil
}

func (r *MockBlogRepository) GetByID(_ context.Context, id uint) (*models.Blog, error) {
	blog, err := r.table.get(id)
	if err != nil {
		return nil, lookupError("blog", id, err)
	}
	return blog, nil
}

func (r *MockBlogRepository) Create(_ context.Context, blog *models.Blog) error {
	now := time.Now()
	blog.CreatedAt, blog.UpdatedAt = now, now
	return r.table.insert(blog)
}

func (r *MockBlogRepository) Update(_ context.Context, blog *models.Blog) error {
	err := r.table.update(blog.ID, func(stored *models.Blog) error {
		blog.CreatedAt = stored.CreatedAt
		blog.UpdatedAt = time.Now()
		*stored = *blog
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return notFound("blog", blog.ID)
	}
	return err
}

func (r *MockBlogRepository) Delete(_ context.Context, id uint) error {
	err := r.table.remove(id)
	if errors.Is(err, ErrNotFound) {
		return notFound("blog", id)
	}
	return err
}
