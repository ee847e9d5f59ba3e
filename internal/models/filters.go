package models

import "strings"

// List filters. Every set field adds one predicate and predicates are
// AND-ed; a zero field places no constraint.

type ProductFilter struct {
	CategoryID uint
	Search     string // case-insensitive substring of the product name
	Status     string
	MinPrice   float64
	MaxPrice   float64
}

func (f ProductFilter) Match(p *Product) bool {
	if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Search != "" && !containsFold(p.Name, f.Search) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

type CategoryFilter struct {
	Search string
}

func (f CategoryFilter) Match(c *Category) bool {
	return f.Search == "" || containsFold(c.Name, f.Search)
}

type PromotionFilter struct {
	Category string
	Status   string
	Search   string // code, description or category
}

func (f PromotionFilter) Match(p *Promotion) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Search != "" &&
		!containsFold(p.Code, f.Search) &&
		!containsFold(p.Description, f.Search) &&
		!containsFold(p.Category, f.Search) {
		return false
	}
	return true
}

type BlogFilter struct {
	Search   string // title or content
	Status   string
	AuthorID uint
}

func (f BlogFilter) Match(b *Blog) bool {
	if f.Search != "" && !containsFold(b.Title, f.Search) && !containsFold(b.Content, f.Search) {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.AuthorID != 0 && b.AuthorID != f.AuthorID {
		return false
	}
	return true
}

type OrderFilter struct {
	Status     string
	CustomerID uint
}

func (f OrderFilter) Match(o *Order) bool {
	if f.Status != "" && !strings.EqualFold(o.Status, f.Status) {
		return false
	}
	if f.CustomerID != 0 && o.CustomerID != f.CustomerID {
		return false
	}
	return true
}

type UserFilter struct {
	Role   Role
	Active *bool
	Search string // username, email or full name
}

func (f UserFilter) Match(u *User) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Active != nil && u.IsActive != *f.Active {
		return false
	}
	if f.Search != "" &&
		!containsFold(u.Username, f.Search) &&
		!containsFold(u.Email, f.Search) &&
		!containsFold(u.FullName, f.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
