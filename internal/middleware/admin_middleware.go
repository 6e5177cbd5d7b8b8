package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const AdminRole = "admin"

// RequireRole lets the request through only when the session role is one of roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := RequireSession(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		}

		for _, role := range roles {
			if strings.EqualFold(s.Role, role) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access denied: " + strings.Join(roles, " or ") + " role required",
		})
	}
}
