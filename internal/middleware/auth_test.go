package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(tokens *session.TokenManager, skipAuth bool) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(tokens, skipAuth), func(c *fiber.Ctx) error {
		s, err := RequireSession(c)
		if err != nil {
			return err
		}
		return c.SendString(s.Username)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tokens := session.NewTokenManager("secret", time.Hour)
	valid, err := tokens.Generate(session.Session{Username: "alice"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"bad token", "Bearer nope", fiber.StatusUnauthorized},
		{"valid", "Bearer " + valid, fiber.StatusOK},
	}
	app := newTestApp(tokens, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthMiddlewareSkipAuth(t *testing.T) {
	app := newTestApp(session.NewTokenManager("secret", time.Hour), true)
	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	tokens := session.NewTokenManager("secret", time.Hour)
	app := fiber.New()
	app.Get("/admin", AuthMiddleware(tokens, false), RequireRole(AdminRole), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name string
		role string
		want int
	}{
		{"admin", "admin", fiber.StatusNoContent},
		{"case insensitive", "Admin", fiber.StatusNoContent},
		{"clerk", "clerk", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tokens.Generate(session.Session{Username: "u", Role: tt.role})
			require.NoError(t, err)
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
