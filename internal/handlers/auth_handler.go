package handlers

import (
	"errors"
	"time"

	"shopfront/internal/middleware"
	"shopfront/internal/models"
	"shopfront/internal/services"
	"shopfront/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CookieConfig names the session cookie and how it is issued.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	authService *services.AuthService
	cookie      CookieConfig
	limiter     fiber.Handler
}

// NewAuthHandler creates a new AuthHandler. limiter guards login and may be
// nil.
func NewAuthHandler(authService *services.AuthService, cookie CookieConfig, limiter fiber.Handler) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		limiter:     limiter,
	}
}

// RegisterRoutes registers the account routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/register", h.HandleRegister)
	if h.limiter != nil {
		userRoutes.Post("/login", h.limiter, h.HandleLogin)
	} else {
		userRoutes.Post("/login", h.HandleLogin)
	}
	userRoutes.Post("/logout", h.HandleLogout)
	userRoutes.Get("/checkAuth", h.HandleCheckAuth)
	userRoutes.Get("/profile", middleware.RequireAuth(), h.HandleProfile)
}

// HandleRegister handles new customer registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "Could not register user")
	}

	logger.FromFiber(c).Info("User registered", zap.Uint("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login. Identifier may be an
// email or a username.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin authenticates the user and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	user, token, err := h.authService.LoginUser(c.UserContext(), identifier, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.FromFiber(c).Info("Login failed", zap.String("identifier", identifier))
			return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return respondError(c, err, "Could not log in")
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.TokenTTL()),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Login successful",
		"user":     user,
		"redirect": redirectFor(user),
	})
}

func redirectFor(user *models.User) string {
	if user.Can(models.TierElevated) {
		return "/admin/admin.html"
	}
	return "/index.html"
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}

// HandleCheckAuth reports whether the request carries a valid session.
func (h *AuthHandler) HandleCheckAuth(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(fiber.Map{"loggedIn": false})
	}
	return c.JSON(fiber.Map{
		"loggedIn": true,
		"user":     user,
		"role":     user.Role,
	})
}

// HandleProfile returns the session user's profile.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err, "Could not load profile")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
