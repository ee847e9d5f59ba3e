package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository defines the interface for promotion data access.
// Codes are unique; a duplicate code fails with ErrConflict.
type PromotionRepository interface {
	List(ctx context.Context, filter models.PromotionFilter) ([]models.Promotion, error)
	GetByID(ctx context.Context, id uint) (*models.Promotion, error)
	Create(ctx context.Context, promotion *models.Promotion) error
	Update(ctx context.Context, promotion *models.Promotion) error
	Delete(ctx context.Context, id uint) error
}

type GORMPromotionRepository struct {
	db *gorm.DB
}

func NewGORMPromotionRepository(db *gorm.DB) *GORMPromotionRepository {
	return &GORMPromotionRepository{db: db}
}

func (r *GORMPromotionRepository) List(ctx context.Context, f models.PromotionFilter) ([]models.Promotion, error) {
	q := r.db.WithContext(ctx)
	if f.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("(LOWER(code) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)", like, like, like)
	}
	var promotions []models.Promotion
	if err := q.Order("id").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

func (r *GORMPromotionRepository) GetByID(ctx context.Context, id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.WithContext(ctx).First(&promotion, id).Error; err != nil {
		if translateError(err) == ErrNotFound {
			return nil, notFound("promotion", id)
		}
		return nil, fmt.Errorf("failed to get promotion by ID %d: %w", id, err)
	}
	return &promotion, nil
}

func (r *GORMPromotionRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	if err := r.db.WithContext(ctx).Create(promotion).Error; err != nil {
		return fmt.Errorf("failed to create promotion: %w", translateError(err))
	}
	return nil
}

func (r *GORMPromotionRepository) Update(ctx context.Context, promotion *models.Promotion) error {
	res := r.db.WithContext(ctx).Model(&models.Promotion{ID: promotion.ID}).
		Select("*").Omit("id", "created_at").Updates(promotion)
	if res.Error != nil {
		return fmt.Errorf("failed to update promotion: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return notFound("promotion", promotion.ID)
	}
	return nil
}

func (r *GORMPromotionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Promotion{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete promotion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("promotion", id)
	}
	return nil
}

type MockPromotionRepository struct {
	table *jsonTable[models.Promotion]
}

func NewMockPromotionRepository(dir string) *MockPromotionRepository {
	return &MockPromotionRepository{
		table: newJSONTable(dir, "promotions",
			func(p *models.Promotion) uint { return p.ID },
			func(p *models.Promotion, id uint) { p.ID = id }),
	}
}

func (r *MockPromotionRepository) List(_ context.Context, filter models.PromotionFilter) ([]models.Promotion, error) {
	return r.table.filter(filter.Match)
}

func (r *MockPromotionRepository) GetByID(_ context.Context, id uint) (*models.Promotion, error) {
	promotion, err := r.table.get(id)
	if err != nil {
		return nil, lookupError("promotion", id, err)
	}
	return promotion, nil
}

func codeTaken(rows []models.Promotion, code string, except uint) bool {
	for _, p := range rows {
		if p.ID != except && strings.EqualFold(p.Code, code) {
			return true
		}
	}
	return false
}

func (r *MockPromotionRepository) Create(_ context.Context, promotion *models.Promotion) error {
	return r.table.mutate(func(rows []models.Promotion) ([]models.Promotion, error) {
		if codeTaken(rows, promotion.Code, 0) {
			return nil, fmt.Errorf("promotion code %q: %w", promotion.Code, ErrConflict)
		}
		var last uint
		for _, p := range rows {
			last = max(last, p.ID)
		}
		now := time.Now()
		promotion.ID = last + 1
		promotion.CreatedAt, promotion.UpdatedAt = now, now
		return append(rows, *promotion), nil
	})
}

func (r *MockPromotionRepository) Update(_ context.Context, promotion *models.Promotion) error {
	err := r.table.mutate(func(rows []models.Promotion) ([]models.Promotion, error) {
		if codeTaken(rows, promotion.Code, promotion.ID) {
			return nil, fmt.Errorf("promotion code %q: %w", promotion.Code, ErrConflict)
		}
		for i := range rows {
			if rows[i].ID == promotion.ID {
				promotion.CreatedAt = rows[i].CreatedAt
				promotion.UpdatedAt = time.Now()
				rows[i] = *promotion
				return rows, nil
			}
		}
		return nil, ErrNotFound
	})
	if errors.Is(err, ErrNotFound) {
		return notFound("promotion", promotion.ID)
	}
	return err
}

func (r *MockPromotionRepository) Delete(_ context.Context, id uint) error {
	err := r.table.remove(id)
	if errors.Is(err, ErrNotFound) {
		return notFound("promotion", id)
	}
	return err
}
