package handlers

import (
	"strconv"

	"shopfront/internal/models"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the public product and category reads.
type CatalogHandler struct {
	products   *services.ProductService
	categories *services.CategoryService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(products *services.ProductService, categories *services.CategoryService) *CatalogHandler {
	return &CatalogHandler{products: products, categories: categories}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/:id", h.HandleGetProduct)
	router.Get("/category", h.HandleListCategories)
	router.Get("/category/:category_id", h.HandleCategoryProducts)
}

// HandleListProducts lists active products, filtered by the query.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return respondError(c, err, "")
	}
	filter := models.ProductFilter{
		CategoryID: categoryID,
		Search:     c.Query("search"),
		Status:     models.ProductActive,
	}
	if filter.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return respondError(c, err, "")
	}
	if filter.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return respondError(c, err, "")
	}

	products, err := h.products.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

// HandleGetProduct returns one active product.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "")
	}
	product, err := h.products.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve product")
	}
	if !product.IsActive() {
		return fail(c, fiber.StatusNotFound, "Product not found")
	}
	return c.JSON(fiber.Map{"success": true, "product": product})
}

// HandleListCategories lists every category.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.ListCategories(c.UserContext(), models.CategoryFilter{Search: c.Query("search")})
	if err != nil {
		return respondError(c, err, "Could not retrieve categories")
	}
	return c.JSON(fiber.Map{"success": true, "categories": categories})
}

// HandleCategoryProducts lists the active products of one category.
func (h *CatalogHandler) HandleCategoryProducts(c *fiber.Ctx) error {
	id, err := paramID(c, "category_id")
	if err != nil {
		return respondError(c, err, "")
	}
	products, err := h.products.ProductsByCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

func queryFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, &services.ValidationError{Message: "invalid " + name}
	}
	return v, nil
}
