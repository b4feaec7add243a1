package middleware

import (
	"log"
	"strings"

	"task-market-system/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireUser parses the Bearer token and attaches the user id to the
// request context. Handlers behind it can rely on c.Locals("user_id")
// being a non-empty string.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			// no "Bearer " prefix — try raw value
			token = authHeader
		}

		userID, err := utils.ParseToken(token)
		if err != nil {
			log.Printf("[AUTH] rejected token for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
