package handlers

import (
	"shopfront/internal/middleware"
	"shopfront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles checkout and the customer's order reads.
type OrderHandler struct {
	service *services.OrderService
	limiter fiber.Handler
}

// NewOrderHandler creates a new OrderHandler. limiter guards checkout and
// may be nil.
func NewOrderHandler(service *services.OrderService, limiter fiber.Handler) *OrderHandler {
	return &OrderHandler{
		service: service,
		limiter: limiter,
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders", middleware.RequireAuth())
	if h.limiter != nil {
		orderRoutes.Post("/checkout", h.limiter, h.HandleCheckout)
	} else {
		orderRoutes.Post("/checkout", h.HandleCheckout)
	}
	orderRoutes.Get("/history", h.HandleHistory)
	orderRoutes.Get("/detail/:order_id", h.HandleDetail)
}

// HandleCheckout places an order for the selected lines.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	order, err := h.service.Checkout(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, err, "Could not place order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Order placed successfully",
		"order_id": order.ID,
		"total":    order.TotalAmount,
	})
}

// HandleHistory lists the session user's orders, newest first.
func (h *OrderHandler) HandleHistory(c *fiber.Ctx) error {
	orders, err := h.service.History(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

// HandleDetail returns one of the session user's orders.
func (h *OrderHandler) HandleDetail(c *fiber.Ctx) error {
	orderID, err := paramID(c, "order_id")
	if err != nil {
		return respondError(c, err, "")
	}
	order, err := h.service.Detail(c.UserContext(), middleware.CurrentUserID(c), orderID)
	if err != nil {
		return respondError(c, err, "Could not retrieve order")
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}
