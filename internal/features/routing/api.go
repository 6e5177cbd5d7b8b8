package routing

import (
	"go-docflow/internal/config"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
)

type RoutingApi struct {
	controller *RoutingController
	config     *config.Config
	tokens     *session.TokenManager
}

func NewRoutingApi(controller *RoutingController, config *config.Config, tokens *session.TokenManager) *RoutingApi {
	return &RoutingApi{
		controller: controller,
		config:     config,
		tokens:     tokens,
	}
}

func (h *RoutingApi) Setup(app *fiber.App) {
	routing := app.Group("/api/v1/routing", middleware.AuthMiddleware(h.tokens, h.config.SkipAuth))

	routing.Post("/resolve", h.controller.Resolve)
}
