package repositories_test

import (
	"context"
	"testing"

	"shopfront/internal/models"
	"shopfront/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with every table
// migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repositories.Models()...))
	return db
}

func seedProducts(t *testing.T, store *repositories.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Categories.Create(ctx, &models.Category{Name: "Kitchen"}))
	require.NoError(t, store.Categories.Create(ctx, &models.Category{Name: "Garden"}))
	for _, p := range []models.Product{
		{CategoryID: 1, Name: "Steel Kettle", Price: 90000, Stock: 5, Status: models.ProductActive},
		{CategoryID: 1, Name: "Tea Cup", Price: 15000, Stock: 40, Status: models.ProductActive},
		{CategoryID: 2, Name: "Garden Hose", Price: 120000, Stock: 2, Status: models.ProductInactive},
	} {
		product := p
		require.NoError(t, store.Products.Create(ctx, &product))
	}
}

// backends runs fn against both storage backends.
func backends(t *testing.T, fn func(t *testing.T, store *repositories.Store)) {
	t.Run("gorm", func(t *testing.T) { fn(t, repositories.NewGORMStore(newTestDB(t))) })
	t.Run("json", func(t *testing.T) { fn(t, repositories.NewMockStore(t.TempDir())) })
}

func TestProductRepository_Filters(t *testing.T) {
	backends(t, func(t *testing.T, store *repositories.Store) {
		ctx := context.Background()
		seedProducts(t, store)

		byCategory, err := store.Products.List(ctx, models.ProductFilter{CategoryID: 1})
		require.NoError(t, err)
		assert.Len(t, byCategory, 2)

		search, err := store.Products.List(ctx, models.ProductFilter{Search: "KETTLE"})
		require.NoError(t, err)
		require.Len(t, search, 1)
		assert.Equal(t, "Steel Kettle", search[0].Name)

		both, err := store.Products.List(ctx, models.ProductFilter{CategoryID: 2, Status: models.ProductActive})
		require.NoError(t, err)
		assert.Empty(t, both)

		priced, err := store.Products.List(ctx, models.ProductFilter{MinPrice: 20000, MaxPrice: 100000})
		require.NoError(t, err)
		require.Len(t, priced, 1)
		assert.Equal(t, uint(1), priced[0].ID)

		n, err := store.Products.Count(ctx, models.ProductFilter{Status: models.ProductActive})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		found, err := store.Products.GetByIDs(ctx, []uint{1, 3, 99})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Contains(t, found, uint(3))
	})
}

func TestProductRepository_UpdateDeleteAdjust(t *testing.T) {
	backends(t, func(t *testing.T, store *repositories.Store) {
		ctx := context.Background()
		seedProducts(t, store)

		p, err := store.Products.GetByID(ctx, 2)
		require.NoError(t, err)
		p.Price = 17500
		require.NoError(t, store.Products.Update(ctx, p))
		got, err := store.Products.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 17500.0, got.Price)

		ghost := models.Product{ID: 77, CategoryID: 1, Name: "Ghost", Price: 1, Status: models.ProductActive}
		assert.ErrorIs(t, store.Products.Update(ctx, &ghost), repositories.ErrNotFound)

		require.NoError(t, store.Products.AdjustStock(ctx, 1, -3))
		require.NoError(t, store.Products.AdjustStock(ctx, 1, -10))
		got, err = store.Products.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, got.Stock)
		assert.ErrorIs(t, store.Products.AdjustStock(ctx, 99, -1), repositories.ErrNotFound)

		require.NoError(t, store.Products.Delete(ctx, 3))
		_, err = store.Products.GetByID(ctx, 3)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.ErrorIs(t, store.Products.Delete(ctx, 3), repositories.ErrNotFound)
	})
}

func TestCartRepository_AddItemIncrements(t *testing.T) {
	backends(t, func(t *testing.T, store *repositories.Store) {
		ctx := context.Background()
		seedProducts(t, store)

		cart, err := store.Carts.GetOrCreate(ctx, 42)
		require.NoError(t, err)
		again, err := store.Carts.GetOrCreate(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, cart.ID, again.ID, "one cart per customer")

		_, err = store.Carts.AddItem(ctx, cart.ID, 1, 2)
		require.NoError(t, err)
		item, err := store.Carts.AddItem(ctx, cart.ID, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
		_, err = store.Carts.AddItem(ctx, cart.ID, 2, 1)
		require.NoError(t, err)

		loaded, err := store.Carts.GetOrCreate(ctx, 42)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 2)

		require.NoError(t, store.Carts.SetItemQuantity(ctx, cart.ID, item.ID, 9))
		other, err := store.Carts.GetOrCreate(ctx, 43)
		require.NoError(t, err)
		assert.ErrorIs(t, store.Carts.SetItemQuantity(ctx, other.ID, item.ID, 1), repositories.ErrNotFound)
		assert.ErrorIs(t, store.Carts.RemoveItem(ctx, other.ID, item.ID), repositories.ErrNotFound)

		require.NoError(t, store.Carts.RemoveProducts(ctx, cart.ID, []uint{2}))
		loaded, err = store.Carts.GetOrCreate(ctx, 42)
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 9, loaded.Items[0].Quantity)

		require.NoError(t, store.Carts.Clear(ctx, cart.ID))
		loaded, err = store.Carts.GetOrCreate(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, loaded.Items)
	})
}

func newOrder(customerID uint, status string, total float64) *models.Order {
	return &models.Order{
		CustomerID:  customerID,
		TotalAmount: total,
		Status:      status,
		Items:       []models.OrderItem{{ProductID: 1, Quantity: 1, UnitPrice: total}},
		Payment:     &models.Payment{Method: models.PaymentCOD, Status: models.PaymentPending, Amount: total},
	}
}

func TestOrderRepository_PlaceAndRead(t *testing.T) {
	backends(t, func(t *testing.T, store *repositories.Store) {
		ctx := context.Background()

		first := newOrder(1, models.OrderPending, 30000)
		require.NoError(t, store.Orders.Place(ctx, first))
		require.NotZero(t, first.ID)
		assert.Equal(t, first.ID, first.Payment.OrderID)
		assert.Equal(t, first.ID, first.Items[0].OrderID)

		second := newOrder(2, models.OrderPending, 5000)
		require.NoError(t, store.Orders.Place(ctx, second))
		cancelled := newOrder(1, models.OrderCancelled, 70000)
		require.NoError(t, store.Orders.Place(ctx, cancelled))

		got, err := store.Orders.GetByID(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		require.NotNil(t, got.Payment)
		assert.Equal(t, models.PaymentCOD, got.Payment.Method)

		mine, err := store.Orders.List(ctx, models.OrderFilter{CustomerID: 1})
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, cancelled.ID, mine[0].ID, "newest first")

		n, err := store.Orders.Count(ctx, models.OrderFilter{Status: models.OrderPending})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		revenue, err := store.Orders.Revenue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 35000.0, revenue)

		_, err = store.Orders.GetByID(ctx, 999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestOrderRepository_UpdateStatusIsCompareAndSet(t *testing.T) {
	backends(t, func(t *testing.T, store *repositories.Store) {
		ctx := context.Background()
		order := newOrder(1, models.OrderPending, 1000)
		require.NoError(t, store.Orders.Place(ctx, order))

		require.NoError(t, store.Orders.UpdateStatus(ctx, order.ID, models.OrderPending, models.OrderShipped))
		err := store.Orders.UpdateStatus(ctx, order.ID, models.OrderPending, models.OrderCancelled)
		assert.ErrorIs(t, err, repositories.ErrConflict)
		assert.ErrorIs(t, store.Orders.UpdateStatus(ctx, 999, models.OrderPending, models.OrderShipped), repositories.ErrNotFound)

		got, err := store.Orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderShipped, got.Status)
	})
}

func TestGORMOrderRepository_PlaceIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := repositories.NewGORMStore(db)

	// A stray payment already owns order id 1, so the payment insert of
	// the first order fails after its order and items were written.
	require.NoError(t, db.Create(&models.Payment{OrderID: 1, Method: models.PaymentCOD, Status: models.PaymentPending}).Error)

	order := newOrder(1, models.OrderPending, 1000)
	require.Error(t, store.Orders.Place(ctx, order))
	assert.Zero(t, order.ID)

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestUserRepository(t *testing.T) {
	backends(t, func(t *testing.T, store *repositories.Store) {
		ctx := context.Background()
		user := &models.User{Username: "ann", Email: "ann@example.com", Password: "hash", Role: models.RoleStaff, IsActive: true}
		require.NoError(t, store.Users.Create(ctx, user))
		require.NotZero(t, user.ID)

		dup := &models.User{Username: "ann", Email: "other@example.com", Role: models.RoleCustomer}
		assert.ErrorIs(t, store.Users.Create(ctx, dup), repositories.ErrConflict)

		byEmail, err := store.Users.GetByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, "hash", byEmail.Password)

		byID, err := store.Users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ann", byID.Username)

		_, err = store.Users.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		staff, err := store.Users.List(ctx, models.UserFilter{Role: models.RoleStaff, Search: "ANN"})
		require.NoError(t, err)
		assert.Len(t, staff, 1)

		n, err := store.Users.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})
}

func TestPromotionRepository_UniqueCode(t *testing.T) {
	backends(t, func(t *testing.T, store *repositories.Store) {
		ctx := context.Background()
		require.NoError(t, store.Promotions.Create(ctx, &models.Promotion{Code: "SALE10", Status: models.PromotionActive}))
		err := store.Promotions.Create(ctx, &models.Promotion{Code: "SALE10", Status: models.PromotionActive})
		assert.ErrorIs(t, err, repositories.ErrConflict)

		found, err := store.Promotions.List(ctx, models.PromotionFilter{Search: "sale"})
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})
}

func TestBlogRepository_NewestFirst(t *testing.T) {
	backends(t, func(t *testing.T, store *repositories.Store) {
		ctx := context.Background()
		older := &models.Blog{AuthorID: 1, Title: "Hello", Content: "First post", Status: models.BlogActive}
		require.NoError(t, store.Blogs.Create(ctx, older))
		newer := &models.Blog{AuthorID: 2, Title: "Again", Content: "Second post", Status: models.BlogActive}
		require.NoError(t, store.Blogs.Create(ctx, newer))

		all, err := store.Blogs.List(ctx, models.BlogFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID)

		posts, err := store.Blogs.List(ctx, models.BlogFilter{Search: "second", AuthorID: 2})
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})
}
