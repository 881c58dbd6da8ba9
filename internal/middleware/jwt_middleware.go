package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/EvgeniyKrainov/foodgram/internal/services"
)

// UserIDKey is the fiber.Ctx locals key holding the authenticated user id.
const UserIDKey = "user_id"

// AuthRequired rejects requests without a valid bearer token and stores the
// authenticated user id in the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := resolveToken(c, authService)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header with a valid Bearer token is required",
			})
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// OptionalAuth resolves a bearer token when present but lets anonymous
// requests through. Public read endpoints use it so responses can still
// carry per-user flags (is_subscribed, is_favorited, is_in_shopping_cart).
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := resolveToken(c, authService); ok {
			c.Locals(UserIDKey, userID)
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 for anonymous.
func CurrentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(UserIDKey).(uint); ok {
		return id
	}
	return 0
}

func resolveToken(c *fiber.Ctx, authService *services.AuthService) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}
	userID, err := authService.ValidateToken(parts[1])
	if err != nil {
		return 0, false
	}
	return userID, true
}
