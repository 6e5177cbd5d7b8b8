package process

import (
	"go-docflow/internal/config"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
)

type ProcessApi struct {
	controller *ProcessController
	config     *config.Config
	tokens     *session.TokenManager
}

func NewProcessApi(controller *ProcessController, config *config.Config, tokens *session.TokenManager) *ProcessApi {
	return &ProcessApi{
		controller: controller,
		config:     config,
		tokens:     tokens,
	}
}

func (h *ProcessApi) Setup(app *fiber.App) {
	processes := app.Group("/api/v1/processes", middleware.AuthMiddleware(h.tokens, h.config.SkipAuth))

	processes.Post("/", h.controller.Create)
	processes.Get("/", h.controller.List)
	processes.Get("/:id", h.controller.Get)
	processes.Post("/:id/advance", h.controller.Advance)
}
