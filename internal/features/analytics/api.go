package analytics

import (
	"go-worklog/internal/common/api"
	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsApi struct {
	Controller *AnalyticsController
	config     *config.Config
}

func NewAnalyticsApi(controller *AnalyticsController, config *config.Config) api.Route {
	return &AnalyticsApi{Controller: controller, config: config}
}

func (a *AnalyticsApi) Setup(app *fiber.App) {
	analytics := app.Group("/api/analytics", middleware.AuthMiddleware(a.config.SkipAuth))

	analytics.Get("/me", a.Controller.Me)

	// Department dashboards
	department := analytics.Group("/department",
		middleware.RequireRole(common_models.RoleAdmin, common_models.RoleSuperAdmin))
	department.Get("/", a.Controller.Department)
	department.Get("/breakdown", a.Controller.Breakdown)
	department.Get("/export", a.Controller.Export)

	// Company overview
	analytics.Get("/company", middleware.RequireRole(common_models.RoleSuperAdmin), a.Controller.Company)
}
