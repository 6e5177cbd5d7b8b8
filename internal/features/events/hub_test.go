package events

import (
	"net/http/httptest"
	"testing"
	"time"

	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubDeliversToParticipatingDepartments(t *testing.T) {
	hub := NewHub(zap.NewNop())
	finance := hub.Subscribe("Finance", 4)
	stores := hub.Subscribe("Stores", 4)
	legal := hub.Subscribe("Legal", 4)
	defer finance.Close()
	defer stores.Close()
	defer legal.Close()

	hub.Publish(ProcessEvent{Type: ProcessSubmitted, ProcessID: "p-1", Departments: []string{"Finance", "Stores", "Finance"}})

	for _, sub := range []*Subscription{finance, stores} {
		select {
		case evt := <-sub.C:
			assert.Equal(t, "p-1", evt.ProcessID)
			assert.False(t, evt.At.IsZero())
		case <-time.After(time.Second):
			t.Fatalf("%s got no event", sub.Department)
		}
	}
	assert.Len(t, finance.C, 0, "duplicate departments deliver once")
	assert.Len(t, legal.C, 0)
}

func TestHubDropsForSlowSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := hub.Subscribe("Finance", 1)
	defer sub.Close()

	hub.Publish(ProcessEvent{ProcessID: "p-1", Departments: []string{"Finance"}})
	hub.Publish(ProcessEvent{ProcessID: "p-2", Departments: []string{"Finance"}})

	evt := <-sub.C
	assert.Equal(t, "p-1", evt.ProcessID)
	assert.Len(t, sub.C, 0)
}

func TestSubscriptionClose(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := hub.Subscribe("Finance", 1)
	assert.Equal(t, 1, hub.Subscribers("Finance"))

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Subscribers("Finance"))
	_, open := <-sub.C
	assert.False(t, open)

	hub.Publish(ProcessEvent{ProcessID: "p-1", Departments: []string{"Finance"}})
}

func TestUpgradeRequiresWebSocket(t *testing.T) {
	controller := NewEventsController(NewHub(zap.NewNop()), session.NewTokenManager("secret", time.Hour), zap.NewNop())
	app := fiber.New()
	app.Get("/ws/events", controller.Upgrade(false), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
