package workflow

import (
	"go-docflow/internal/config"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
)

type WorkflowApi struct {
	controller *WorkflowController
	config     *config.Config
	tokens     *session.TokenManager
}

func NewWorkflowApi(controller *WorkflowController, config *config.Config, tokens *session.TokenManager) *WorkflowApi {
	return &WorkflowApi{
		controller: controller,
		config:     config,
		tokens:     tokens,
	}
}

func (h *WorkflowApi) Setup(app *fiber.App) {
	workflows := app.Group("/api/v1/workflows", middleware.AuthMiddleware(h.tokens, h.config.SkipAuth))

	workflows.Post("/draft/insert", h.controller.InsertDraftStep)
	workflows.Post("/draft/remove", h.controller.RemoveDraftStep)
	workflows.Get("/:departmentId", h.controller.GetWorkflow)
	workflows.Put("/:departmentId", h.controller.SaveWorkflow)
}
