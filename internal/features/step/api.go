package step

import (
	"go-docflow/internal/config"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
)

type StepApi struct {
	controller *StepController
	config     *config.Config
	tokens     *session.TokenManager
}

func NewStepApi(controller *StepController, config *config.Config, tokens *session.TokenManager) *StepApi {
	return &StepApi{
		controller: controller,
		config:     config,
		tokens:     tokens,
	}
}

func (h *StepApi) Setup(app *fiber.App) {
	steps := app.Group("/api/v1/steps", middleware.AuthMiddleware(h.tokens, h.config.SkipAuth))

	steps.Post("/next", h.controller.NextStep)
}
