package audit

import (
	"go-worklog/internal/common/api"
	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) api.Route {
	return &AuditApi{
		controller: controller,
		config:     config,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit-logs", middleware.AuthMiddleware(h.config.SkipAuth))

	audit.Get("/", middleware.RequireRole(common_models.RoleSuperAdmin), h.controller.ListLogs)
}
