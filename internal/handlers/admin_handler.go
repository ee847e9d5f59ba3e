package handlers

import (
	"shopfront/internal/middleware"
	"shopfront/internal/models"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the admin mutation surface. Every route needs the
// elevated tier; deletes and the user list need the super tier.
type AdminHandler struct {
	products   *services.ProductService
	categories *services.CategoryService
	promotions *services.PromotionService
	blogs      *services.BlogService
	orders     *services.OrderService
	admin      *services.AdminService
}

// AdminServices bundles the services behind the admin surface.
type AdminServices struct {
	Products   *services.ProductService
	Categories *services.CategoryService
	Promotions *services.PromotionService
	Blogs      *services.BlogService
	Orders     *services.OrderService
	Admin      *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(s AdminServices) *AdminHandler {
	return &AdminHandler{
		products:   s.Products,
		categories: s.Categories,
		promotions: s.Promotions,
		blogs:      s.Blogs,
		orders:     s.Orders,
		admin:      s.Admin,
	}
}

// RegisterRoutes registers the admin routes.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin", middleware.RequireTier(models.TierElevated))
	super := middleware.RequireTier(models.TierSuper)

	admin.Get("/stats", h.HandleStats)
	admin.Get("/users", super, h.HandleListUsers)

	admin.Get("/products", h.HandleListProducts)
	admin.Get("/products/:id", h.HandleGetProduct)
	admin.Post("/products", h.HandleCreateProduct)
	admin.Put("/products/:id", h.HandleUpdateProduct)
	admin.Delete("/products/:id", super, h.HandleDeleteProduct)

	admin.Get("/categories", h.HandleListCategories)
	admin.Get("/categories/:id", h.HandleGetCategory)
	admin.Post("/categories", h.HandleCreateCategory)
	admin.Put("/categories/:id", h.HandleUpdateCategory)
	admin.Delete("/categories/:id", super, h.HandleDeleteCategory)

	admin.Get("/promotions", h.HandleListPromotions)
	admin.Get("/promotions/:id", h.HandleGetPromotion)
	admin.Post("/promotions", h.HandleCreatePromotion)
	admin.Put("/promotions/:id", h.HandleUpdatePromotion)
	admin.Delete("/promotions/:id", super, h.HandleDeletePromotion)

	admin.Get("/blogs", h.HandleListBlogs)
	admin.Get("/blogs/:id", h.HandleGetBlog)
	admin.Post("/blogs", h.HandleCreateBlog)
	admin.Put("/blogs/:id", h.HandleUpdateBlog)
	admin.Delete("/blogs/:id", super, h.HandleDeleteBlog)

	admin.Get("/orders", h.HandleListOrders)
	admin.Get("/orders/:id", h.HandleGetOrder)
	admin.Put("/orders/:id", h.HandleUpdateOrderStatus)
	admin.Put("/orders/:id/status", h.HandleUpdateOrderStatus)
}

func (h *AdminHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not compute stats")
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

// HandleListUsers lists accounts filtered by role, status and search.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	filter := models.UserFilter{
		Role:   models.Role(c.Query("role")),
		Search: c.Query("search"),
	}
	switch c.Query("status") {
	case "":
	case "active":
		active := true
		filter.Active = &active
	case "inactive":
		active := false
		filter.Active = &active
	default:
		return fail(c, fiber.StatusBadRequest, "invalid status")
	}
	users, err := h.admin.ListUsers(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}

// Products

func (h *AdminHandler) HandleListProducts(c *fiber.Ctx) error {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return respondError(c, err, "")
	}
	products, err := h.products.ListProducts(c.UserContext(), models.ProductFilter{
		CategoryID: categoryID,
		Search:     c.Query("search"),
		Status:     c.Query("status"),
	})
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

func (h *AdminHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	product, err := h.products.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve product")
	}
	return c.JSON(fiber.Map{"success": true, "product": product})
}

func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, err)
	}
	product.ID = 0
	if err := h.products.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "product": product})
}

func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, err)
	}
	product.ID = id
	if err := h.products.UpdateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, err, "Could not update product")
	}
	return c.JSON(fiber.Map{"success": true, "product": product})
}

func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.products.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted"})
}

// Categories

func (h *AdminHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.ListCategories(c.UserContext(), models.CategoryFilter{Search: c.Query("search")})
	if err != nil {
		return respondError(c, err, "Could not retrieve categories")
	}
	return c.JSON(fiber.Map{"success": true, "categories": categories})
}

func (h *AdminHandler) HandleGetCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	category, err := h.categories.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve category")
	}
	return c.JSON(fiber.Map{"success": true, "category": category})
}

func (h *AdminHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return badRequest(c, err)
	}
	category.ID = 0
	if err := h.categories.CreateCategory(c.UserContext(), &category); err != nil {
		return respondError(c, err, "Could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "category": category})
}

func (h *AdminHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return badRequest(c, err)
	}
	category.ID = id
	if err := h.categories.UpdateCategory(c.UserContext(), &category); err != nil {
		return respondError(c, err, "Could not update category")
	}
	return c.JSON(fiber.Map{"success": true, "category": category})
}

func (h *AdminHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.categories.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, err, "Could not delete category")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Category deleted"})
}

// Promotions

func (h *AdminHandler) HandleListPromotions(c *fiber.Ctx) error {
	promotions, err := h.promotions.ListPromotions(c.UserContext(), models.PromotionFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return respondError(c, err, "Could not retrieve promotions")
	}
	return c.JSON(fiber.Map{"success": true, "promotions": promotions})
}

func (h *AdminHandler) HandleGetPromotion(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	promotion, err := h.promotions.GetPromotion(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve promotion")
	}
	return c.JSON(fiber.Map{"success": true, "promotion": promotion})
}

func (h *AdminHandler) HandleCreatePromotion(c *fiber.Ctx) error {
	var promotion models.Promotion
	if err := c.BodyParser(&promotion); err != nil {
		return badRequest(c, err)
	}
	promotion.ID = 0
	if err := h.promotions.CreatePromotion(c.UserContext(), &promotion); err != nil {
		return respondError(c, err, "Could not create promotion")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "promotion": promotion})
}

func (h *AdminHandler) HandleUpdatePromotion(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	var promotion models.Promotion
	if err := c.BodyParser(&promotion); err != nil {
		return badRequest(c, err)
	}
	promotion.ID = id
	if err := h.promotions.UpdatePromotion(c.UserContext(), &promotion); err != nil {
		return respondError(c, err, "Could not update promotion")
	}
	return c.JSON(fiber.Map{"success": true, "promotion": promotion})
}

func (h *AdminHandler) HandleDeletePromotion(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.promotions.DeletePromotion(c.UserContext(), id); err != nil {
		return respondError(c, err, "Could not delete promotion")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Promotion deleted"})
}

// Blogs

func (h *AdminHandler) HandleListBlogs(c *fiber.Ctx) error {
	authorID, err := queryID(c, "author_id")
	if err != nil {
		return respondError(c, err, "")
	}
	blogs, err := h.blogs.ListBlogs(c.UserContext(), models.BlogFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		AuthorID: authorID,
	})
	if err != nil {
		return respondError(c, err, "Could not retrieve blogs")
	}
	return c.JSON(fiber.Map{"success": true, "blogs": blogs})
}

func (h *AdminHandler) HandleGetBlog(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	blog, err := h.blogs.GetBlog(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve blog")
	}
	return c.JSON(fiber.Map{"success": true, "blog": blog})
}

func (h *AdminHandler) HandleCreateBlog(c *fiber.Ctx) error {
	var blog models.Blog
	if err := c.BodyParser(&blog); err != nil {
		return badRequest(c, err)
	}
	if err := h.blogs.CreateBlog(c.UserContext(), middleware.CurrentUser(c).ID, &blog); err != nil {
		return respondError(c, err, "Could not create blog")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "blog": blog})
}

func (h *AdminHandler) HandleUpdateBlog(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	var blog models.Blog
	if err := c.BodyParser(&blog); err != nil {
		return badRequest(c, err)
	}
	blog.ID = id
	if err := h.blogs.UpdateBlog(c.UserContext(), &blog); err != nil {
		return respondError(c, err, "Could not update blog")
	}
	return c.JSON(fiber.Map{"success": true, "blog": blog})
}

func (h *AdminHandler) HandleDeleteBlog(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.blogs.DeleteBlog(c.UserContext(), id); err != nil {
		return respondError(c, err, "Could not delete blog")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Blog deleted"})
}

// Orders

func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	customerID, err := queryID(c, "customer_id")
	if err != nil {
		return respondError(c, err, "")
	}
	orders, err := h.orders.ListOrders(c.UserContext(), models.OrderFilter{
		Status:     c.Query("status"),
		CustomerID: customerID,
	})
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	order, err := h.orders.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve order")
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}

// StatusRequest is the body of an order status change.
type StatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus moves an order along its status machine. A
// backwards move is rejected with 400, a lost race with 409.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	order, err := h.orders.UpdateOrderStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return respondError(c, err, "Could not update order status")
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}
