package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through only if the caller holds one of roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !slices.Contains(roles, strings.ToLower(claims.Role)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: insufficient role",
			})
		}

		return c.Next()
	}
}
