package report

import (
	"go-worklog/internal/common/api"
	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	config     *config.Config
}

func NewReportApi(controller *ReportController, config *config.Config) api.Route {
	return &ReportApi{
		controller: controller,
		config:     config,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.config.SkipAuth))
	reviewers := middleware.RequireRole(common_models.RoleAdmin, common_models.RoleSuperAdmin)

	reports.Post("/", h.controller.Submit)
	reports.Get("/me/today", h.controller.MyToday)
	reports.Get("/me/history", h.controller.MyHistory)

	reports.Get("/today", reviewers, h.controller.ByDay)
	reports.Get("/search", reviewers, h.controller.Search)
	reports.Get("/status", reviewers, h.controller.Status)
	reports.Get("/user/:id", reviewers, h.controller.ByUser)
}
