package api

import (
	"context"
	"time"

	"go-docflow/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthApi struct {
	mongodb *database.MongodbDB
	redis   *redis.Client
}

func NewHealthApi(mongodb *database.MongodbDB, redis *redis.Client) *HealthApi {
	return &HealthApi{mongodb: mongodb, redis: redis}
}

// Setup registers health check route
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check that the server, Mongo and Redis are reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.Map{"status": "ok", "mongo": "ok", "redis": "ok"}
	code := fiber.StatusOK

	if h.mongodb != nil {
		if err := h.mongodb.DB.Client().Ping(ctx, readpref.Primary()); err != nil {
			status["mongo"] = err.Error()
			code = fiber.StatusServiceUnavailable
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			code = fiber.StatusServiceUnavailable
		}
	}
	if code != fiber.StatusOK {
		status["status"] = "degraded"
	}
	return c.Status(code).JSON(status)
}
