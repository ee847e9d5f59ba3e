package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"shopfront/internal/middleware"
	"shopfront/internal/services"
	"shopfront/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler serves the cart of the session user or, for anonymous
// visitors, the guest cart held in a cookie.
type CartHandler struct {
	service      *services.CartService
	guest        guestCookie
	requireLogin bool
}

// NewCartHandler creates a new CartHandler. With requireLogin set, anonymous
// visitors cannot add to the guest cart.
func NewCartHandler(service *services.CartService, guestCookieName string, secure, requireLogin bool) *CartHandler {
	return &CartHandler{
		service:      service,
		guest:        guestCookie{name: guestCookieName, secure: secure},
		requireLogin: requireLogin,
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleView)
	cartRoutes.Post("/add", h.HandleAdd)
	cartRoutes.Post("/update", middleware.RequireAuth(), h.HandleUpdate)
	cartRoutes.Put("/:cart_item_id", middleware.RequireAuth(), h.HandleSetQuantity)
	cartRoutes.Delete("/:cart_item_id", middleware.RequireAuth(), h.HandleRemove)
	cartRoutes.Delete("/", middleware.RequireAuth(), h.HandleClear)
}

// CartLineRequest is the body of cart mutations.
type CartLineRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// HandleView returns the cart of the request. A session user's guest cookie
// is merged into the account cart; whatever could not be merged stays in
// the cookie.
func (h *CartHandler) HandleView(c *fiber.Ctx) error {
	guest, ok := h.guest.read(c)
	if !ok {
		logger.FromFiber(c).Warn("Discarding unreadable guest cart cookie")
		h.guest.clear(c)
	}
	sel, err := selection(c)
	if err != nil {
		return respondError(c, err, "")
	}

	customerID := middleware.CurrentUserID(c)
	view, rest, err := h.service.View(c.UserContext(), customerID, guest, sel)
	if customerID != nil && len(guest) > 0 {
		if werr := h.guest.write(c, rest); werr != nil {
			logger.FromFiber(c).Error("Failed to rewrite guest cart cookie", zap.Error(werr))
		}
	}
	if err != nil {
		return respondError(c, err, "Could not load cart")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"cart_id": view.CartID,
		"guest":   view.Guest,
		"items":   view.Items,
		"total":   view.Total,
	})
}

func invalidGuestCart() error {
	return &services.ValidationError{
		Message: "Cart is full, log in to add more products",
		Fields:  map[string]string{"product_id": fmt.Sprintf("guest carts hold at most %d products", maxGuestLines)},
	}
}

// selection reads the comma separated "selected" product ids. Without the
// parameter every line is selected.
func selection(c *fiber.Ctx) (services.Selection, error) {
	if !c.Context().QueryArgs().Has("selected") {
		return services.Selection{}, nil
	}
	var ids []uint
	for _, part := range strings.Split(c.Query("selected"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return services.Selection{}, &services.ValidationError{Message: "invalid selected"}
		}
		ids = append(ids, uint(id))
	}
	return services.SelectProducts(ids), nil
}

// HandleAdd adds a product to the cart.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req CartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if user := middleware.CurrentUser(c); user != nil {
		item, err := h.service.AddLine(c.UserContext(), user.ID, req.ProductID, req.Quantity)
		if err != nil {
			return respondError(c, err, "Could not add to cart")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Product added to cart",
			"item":    item,
		})
	}

	if h.requireLogin {
		return fail(c, fiber.StatusUnauthorized, "Please log in to add products to your cart")
	}
	guest, _ := h.guest.read(c)
	guest, err := h.service.AddGuestLine(c.UserContext(), guest, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err, "Could not add to cart")
	}
	if len(guest) > maxGuestLines {
		return respondError(c, invalidGuestCart(), "")
	}
	if err := h.guest.write(c, guest); err != nil {
		return respondError(c, err, "Could not add to cart")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product added to cart",
	})
}

// HandleUpdate sets the quantity of the line holding a product.
func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	var req CartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.service.SetProductQuantity(c.UserContext(), middleware.CurrentUser(c).ID, req.ProductID, req.Quantity); err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Cart updated"})
}

// HandleSetQuantity sets the quantity of one cart line.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	lineID, err := paramID(c, "cart_item_id")
	if err != nil {
		return respondError(c, err, "")
	}
	var req CartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.service.SetQuantity(c.UserContext(), middleware.CurrentUser(c).ID, lineID, req.Quantity); err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Cart updated"})
}

// HandleRemove removes one cart line.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	lineID, err := paramID(c, "cart_item_id")
	if err != nil {
		return respondError(c, err, "")
	}
	if err := h.service.RemoveLine(c.UserContext(), middleware.CurrentUser(c).ID, lineID); err != nil {
		return respondError(c, err, "Could not remove cart item")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Item removed from cart"})
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, err, "Could not clear cart")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Cart cleared"})
}
