package system

import (
	"context"
	"time"

	"go-worklog/internal/common/api"
	"go-worklog/internal/database"
	"go-worklog/internal/features/reminder"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether the backing store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthApi struct {
	db      Pinger
	hub     *reminder.Hub
	started time.Time
}

func NewHealthApi(db *database.MongodbDB, hub *reminder.Hub) api.Route {
	return &HealthApi{db: db, hub: hub, started: time.Now()}
}

// Setup registers health check route
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
}

// HealthCheck godoc
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, database := fiber.StatusOK, "up"
	if err := h.db.Ping(ctx); err != nil {
		status, database = fiber.StatusServiceUnavailable, "down"
	}

	body := fiber.Map{
		"status":   "ok",
		"database": database,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	}
	if status != fiber.StatusOK {
		body["status"] = "degraded"
	}
	if h.hub != nil {
		body["streams"] = h.hub.Clients()
	}
	return c.Status(status).JSON(body)
}
