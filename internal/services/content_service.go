package services

import (
	"context"
	"strings"

	"shopfront/internal/models"
	"shopfront/internal/repositories"
)

// PromotionService manages the discount-code ledger.
type PromotionService struct {
	repo repositories.PromotionRepository
}

func NewPromotionService(repo repositories.PromotionRepository) *PromotionService {
	return &PromotionService{repo: repo}
}

func (s *PromotionService) validate(p *models.Promotion) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if p.Status == "" {
		p.Status = models.PromotionActive
	}
	if err := validateStruct(p); err != nil {
		return err
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return invalidField("end_date", "end_date must not be before start_date")
	}
	if p.QuantityLimit > 0 && p.QuantityUsed > p.QuantityLimit {
		return invalidField("quantity_used", "quantity_used must not exceed quantity_limit")
	}
	return nil
}

func (s *PromotionService) ListPromotions(ctx context.Context, filter models.PromotionFilter) ([]models.Promotion, error) {
	return s.repo.List(ctx, filter)
}

func (s *PromotionService) GetPromotion(ctx context.Context, id uint) (*models.Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

// CreatePromotion stores a new code; a code already in use is a conflict.
func (s *PromotionService) CreatePromotion(ctx context.Context, p *models.Promotion) error {
	p.ID = 0
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *PromotionService) UpdatePromotion(ctx context.Context, p *models.Promotion) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *PromotionService) DeletePromotion(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// BlogService manages editorial posts.
type BlogService struct {
	repo repositories.BlogRepository
}

func NewBlogService(repo repositories.BlogRepository) *BlogService {
	return &BlogService{repo: repo}
}

func (s *BlogService) validate(b *models.Blog) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Content = strings.TrimSpace(b.Content)
	if b.Status == "" {
		b.Status = models.BlogActive
	}
	return validateStruct(b)
}

func (s *BlogService) ListBlogs(ctx context.Context, filter models.BlogFilter) ([]models.Blog, error) {
	return s.repo.List(ctx, filter)
}

func (s *BlogService) GetBlog(ctx context.Context, id uint) (*models.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateBlog stores a post authored by authorID.
func (s *BlogService) CreateBlog(ctx context.Context, authorID uint, b *models.Blog) error {
	b.ID = 0
	b.AuthorID = authorID
	if err := s.validate(b); err != nil {
		return err
	}
	return s.repo.Create(ctx, b)
}

// UpdateBlog overwrites a post, keeping its author.
func (s *BlogService) UpdateBlog(ctx context.Context, b *models.Blog) error {
	existing, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	b.AuthorID = existing.AuthorID
	if err := s.validate(b); err != nil {
		return err
	}
	return s.repo.Update(ctx, b)
}

func (s *BlogService) DeleteBlog(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
