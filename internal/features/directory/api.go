package directory

import (
	"go-docflow/internal/config"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
)

type DirectoryApi struct {
	controller *DirectoryController
	config     *config.Config
	tokens     *session.TokenManager
}

func NewDirectoryApi(controller *DirectoryController, config *config.Config, tokens *session.TokenManager) *DirectoryApi {
	return &DirectoryApi{
		controller: controller,
		config:     config,
		tokens:     tokens,
	}
}

func (h *DirectoryApi) Setup(app *fiber.App) {
	api := app.Group("/api/v1")
	auth := middleware.AuthMiddleware(h.tokens, h.config.SkipAuth)

	api.Get("/branches", auth, h.controller.ListBranches)
	api.Get("/departments/initiable", auth, h.controller.ListInitiableDepartments)
	api.Get("/roles", auth, h.controller.ListRoles)
}
