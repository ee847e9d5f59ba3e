package repositories

import (
	"shopfront/internal/models"

	"gorm.io/gorm"
)

// Store bundles one repository per entity over a single backend.
type Store struct {
	Products   ProductRepository
	Categories CategoryRepository
	Carts      CartRepository
	Orders     OrderRepository
	Promotions PromotionRepository
	Blogs      BlogRepository
	Users      UserRepository
}

// Models lists every persisted model, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Promotion{},
		&models.Blog{},
	}
}

// NewGORMStore builds a Store over a relational database.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Products:   NewGORMProductRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Carts:      NewGORMCartRepository(db),
		Orders:     NewGORMOrderRepository(db),
		Promotions: NewGORMPromotionRepository(db),
		Blogs:      NewGORMBlogRepository(db),
		Users:      NewGORMUserRepository(db),
	}
}

// NewMockStore builds a Store over JSON files in dir. An empty dir keeps
// everything in memory.
func NewMockStore(dir string) *Store {
	return &Store{
		Products:   NewMockProductRepository(dir),
		Categories: NewMockCategoryRepository(dir),
		Carts:      NewMockCartRepository(dir),
		Orders:     NewMockOrderRepository(dir),
		Promotions: NewMockPromotionRepository(dir),
		Blogs:      NewMockBlogRepository(dir),
		Users:      NewMockUserRepository(dir),
	}
}
