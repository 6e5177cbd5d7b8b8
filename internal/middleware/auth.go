package middleware

import (
	"strings"

	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
)

// DevSession is injected when auth is skipped
var DevSession = session.Session{
	Username:   "dev-user",
	Department: "dev-department",
	Role:       "admin",
}

// AuthMiddleware validates JWT tokens and attaches the session to the request
func AuthMiddleware(tokens *session.TokenManager, skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			session.Store(c, DevSession)
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header required",
			})
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid authorization header format",
			})
		}

		s, err := tokens.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token",
			})
		}

		session.Store(c, s)
		return c.Next()
	}
}

// RequireSession returns the request session or a 401 fiber error
func RequireSession(c *fiber.Ctx) (session.Session, error) {
	s, ok := session.From(c)
	if !ok {
		return session.Session{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return s, nil
}
