package events

import (
	"go-docflow/internal/config"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type EventsApi struct {
	controller *EventsController
	config     *config.Config
}

func NewEventsApi(controller *EventsController, config *config.Config) *EventsApi {
	return &EventsApi{
		controller: controller,
		config:     config,
	}
}

func (h *EventsApi) Setup(app *fiber.App) {
	app.Get("/ws/events", h.controller.Upgrade(h.config.SkipAuth), websocket.New(h.controller.Stream))
}
