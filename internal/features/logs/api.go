package logs

import (
	"go-docflow/internal/config"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
)

type LogApi struct {
	controller *LogController
	config     *config.Config
	tokens     *session.TokenManager
}

func NewLogApi(controller *LogController, config *config.Config, tokens *session.TokenManager) *LogApi {
	return &LogApi{
		controller: controller,
		config:     config,
		tokens:     tokens,
	}
}

func (h *LogApi) Setup(app *fiber.App) {
	logs := app.Group("/api/v1/logs",
		middleware.AuthMiddleware(h.tokens, h.config.SkipAuth),
		middleware.RequireRole(middleware.AdminRole),
	)

	logs.Get("/", h.controller.List)
	logs.Get("/export", h.controller.Export)
}
