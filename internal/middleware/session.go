package middleware

import (
	"strings"

	"shopfront/internal/models"
	"shopfront/internal/services"
	"shopfront/pkg/logger"
	"shopfront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const userKey = "user"

// Session loads the session user, if any, into c.Locals("user"). The token
// is read from the session cookie, or from a Bearer header for API
// clients. A missing, invalid or unverifiable session leaves the request
// anonymous; it is never rejected here.
func Session(authService *services.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			if parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			return c.Next()
		}

		user, err := authService.UserFromToken(c.UserContext(), token)
		if err != nil {
			logger.FromFiber(c).Debug("Ignoring session", zap.Error(err))
			return c.Next()
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the session user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// CurrentUserID returns the id of the session user, or nil.
func CurrentUserID(c *fiber.Ctx) *uint {
	if user := CurrentUser(c); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authentication required",
			})
		}
		return c.Next()
	}
}

// RequireTier admits session users holding at least tier t. Anonymous
// requests get 401, users below t get 403.
func RequireTier(t models.Tier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authentication required",
			})
		}
		if !user.Can(t) {
			metrics.AdminDenied.WithLabelValues(t.String()).Inc()
			logger.FromFiber(c).Warn("Access denied",
				zap.Uint("user_id", user.ID),
				zap.String("role", string(user.Role)),
				zap.String("required_tier", t.String()),
				zap.String("path", c.Path()))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "You do not have permission to perform this action",
			})
		}
		return c.Next()
	}
}
