package events

import (
	"go-docflow/internal/session"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EventsController struct {
	Hub    *Hub
	Tokens *session.TokenManager
	Logger *zap.Logger
}

func NewEventsController(hub *Hub, tokens *session.TokenManager, logger *zap.Logger) *EventsController {
	return &EventsController{Hub: hub, Tokens: tokens, Logger: logger}
}

// Upgrade authenticates the socket from the token query parameter
func (h *EventsController) Upgrade(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if skipAuth {
			c.Locals("department", c.Query("department"))
			c.Locals("username", "dev-user")
			return c.Next()
		}

		s, err := h.Tokens.Validate(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}
		c.Locals("department", s.Department)
		c.Locals("username", s.Username)
		return c.Next()
	}
}

// Stream pushes the department's process events until the client goes away
func (h *EventsController) Stream(c *websocket.Conn) {
	department, _ := c.Locals("department").(string)
	username, _ := c.Locals("username").(string)
	if department == "" {
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "no department"))
		return
	}

	sub := h.Hub.Subscribe(department, 32)
	defer sub.Close()
	h.Logger.Debug("Event stream opened", zap.String("username", username), zap.String("department", department))

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			h.Logger.Debug("Event stream closed", zap.String("username", username))
			return
		case evt, ok := <-sub.C:
			if !ok {
				return
			}
			if err := c.WriteJSON(evt); err != nil {
				h.Logger.Debug("Event stream write failed", zap.String("username", username), zap.Error(err))
				return
			}
		}
	}
}
