package reminder

import (
	"go-worklog/internal/common/api"
	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ReminderApi struct {
	controller *ReminderController
	config     *config.Config
}

func NewReminderApi(controller *ReminderController, config *config.Config) api.Route {
	return &ReminderApi{
		controller: controller,
		config:     config,
	}
}

func (h *ReminderApi) Setup(app *fiber.App) {
	reminders := app.Group("/api/reminders", middleware.AuthMiddleware(h.config.SkipAuth))
	senders := middleware.RequireRole(common_models.RoleAdmin, common_models.RoleSuperAdmin)

	reminders.Get("/ws", h.controller.Upgrade, websocket.New(h.controller.Stream))
	reminders.Get("/", h.controller.Inbox)
	reminders.Get("/sent", senders, h.controller.Sent)
	reminders.Post("/", senders, h.controller.Create)
	reminders.Delete("/:id", senders, h.controller.Delete)
}
