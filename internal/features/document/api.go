package document

import (
	"go-docflow/internal/config"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
)

type DocumentApi struct {
	controller *DocumentController
	config     *config.Config
	tokens     *session.TokenManager
}

func NewDocumentApi(controller *DocumentController, config *config.Config, tokens *session.TokenManager) *DocumentApi {
	return &DocumentApi{
		controller: controller,
		config:     config,
		tokens:     tokens,
	}
}

func (h *DocumentApi) Setup(app *fiber.App) {
	documents := app.Group("/api/v1/documents", middleware.AuthMiddleware(h.tokens, h.config.SkipAuth))

	documents.Post("/", h.controller.Upload)
	documents.Get("/:id/download", h.controller.Download)
}
