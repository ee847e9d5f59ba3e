package handlers

import (
	"errors"
	"strconv"

	"shopfront/internal/repositories"
	"shopfront/internal/services"
	"shopfront/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError renders err with the status its kind maps to. Storage and
// other unexpected failures are logged and answered with a generic message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		body := fiber.Map{"success": false, "message": verr.Message}
		if len(verr.Fields) > 0 {
			body["errors"] = verr.Fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, services.ErrUnauthenticated):
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, repositories.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrConflict):
		return fail(c, fiber.StatusConflict, err.Error())
	}

	logger.FromFiber(c).Error(fallback, zap.String("path", c.Path()), zap.Error(err))
	return fail(c, fiber.StatusInternalServerError, fallback)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	logger.FromFiber(c).Debug("Error parsing request body", zap.Error(err))
	return fail(c, fiber.StatusBadRequest, "Invalid request body")
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &services.ValidationError{Message: "invalid " + name}
	}
	return uint(id), nil
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &services.ValidationError{Message: "invalid " + name}
	}
	return uint(id), nil
}

// ErrorHandler is the Fiber error handler. Errors that escape a handler are
// rendered with the same body as handled ones.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fail(c, fe.Code, fe.Message)
	}
	return respondError(c, err, "Internal server error")
}
