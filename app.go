package main

import (
	"time"

	"shopfront/internal/config"
	"shopfront/internal/events"
	"shopfront/internal/handlers"
	"shopfront/internal/middleware"
	"shopfront/internal/repositories"
	"shopfront/internal/services"
	"shopfront/pkg/logger"
	"shopfront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the resources the HTTP application is built from. Publisher and
// Redis may be nil.
type Deps struct {
	Config    *config.Config
	Store     *repositories.Store
	Publisher events.Publisher
	Redis     *redis.Client
	Logger    *zap.Logger
}

// Services are the services behind the application.
type Services struct {
	Auth       *services.AuthService
	Products   *services.ProductService
	Categories *services.CategoryService
	Cart       *services.CartService
	Orders     *services.OrderService
	Promotions *services.PromotionService
	Blogs      *services.BlogService
	Admin      *services.AdminService
	Inventory  *services.InventoryService
}

// NewServices builds every service over deps.
func NewServices(deps Deps) *Services {
	cfg, store, log := deps.Config, deps.Store, deps.Logger
	cart := services.NewCartService(store.Carts, store.Products, log)
	return &Services{
		Auth:       services.NewAuthService(store.Users, cfg.SessionSecret, cfg.SessionTTL, log),
		Products:   services.NewProductService(store.Products, store.Categories, log),
		Categories: services.NewCategoryService(store.Categories),
		Cart:       cart,
		Orders: services.NewOrderService(store.Orders, store.Products, cart, deps.Publisher,
			services.NewPricing(cfg.CheckoutShippingFee, cfg.CheckoutDiscount), log),
		Promotions: services.NewPromotionService(store.Promotions),
		Blogs:      services.NewBlogService(store.Blogs),
		Admin:      services.NewAdminService(store),
		Inventory:  services.NewInventoryService(store.Products, log),
	}
}

// NewApp builds the Fiber application with every route registered.
func NewApp(deps Deps, svc *Services) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      "shopfront",
		ErrorHandler: handlers.ErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.Middleware(deps.Logger))
	app.Use(metrics.NewHTTPMetrics("shopfront").Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", metrics.Handler())

	limiter := middleware.RateLimit(cfg.RateLimit, deps.Redis)

	api := app.Group("/api", middleware.Session(svc.Auth, cfg.SessionCookie))
	handlers.NewAuthHandler(svc.Auth, handlers.CookieConfig{
		Name:   cfg.SessionCookie,
		Secure: cfg.CookieSecure,
	}, limiter).RegisterRoutes(api)
	handlers.NewCatalogHandler(svc.Products, svc.Categories).RegisterRoutes(api)
	handlers.NewCartHandler(svc.Cart, cfg.GuestCartCookie, cfg.CookieSecure, cfg.CartRequireLogin).RegisterRoutes(api)
	handlers.NewOrderHandler(svc.Orders, limiter).RegisterRoutes(api)
	handlers.NewAdminHandler(handlers.AdminServices{
		Products:   svc.Products,
		Categories: svc.Categories,
		Promotions: svc.Promotions,
		Blogs:      svc.Blogs,
		Orders:     svc.Orders,
		Admin:      svc.Admin,
	}).RegisterRoutes(api)

	return app
}
