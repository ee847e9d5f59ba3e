package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestID tags each request with X-Request-ID, keeping a client-supplied
// one, and stores it in c.Locals("requestid").
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(fiber.HeaderXRequestID, requestID)
		c.Locals("requestid", requestID)
		return c.Next()
	}
}
