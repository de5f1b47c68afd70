package housekeeping

import (
	"go-worklog/internal/common/api"
	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type HousekeepingApi struct {
	controller *HousekeepingController
	config     *config.Config
}

func NewHousekeepingApi(controller *HousekeepingController, config *config.Config) api.Route {
	return &HousekeepingApi{
		controller: controller,
		config:     config,
	}
}

func (h *HousekeepingApi) Setup(app *fiber.App) {
	jobs := app.Group("/api/housekeeping",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(common_models.RoleSuperAdmin),
	)

	jobs.Get("/jobs", h.controller.ListJobs)
	jobs.Post("/jobs/:name/run", h.controller.RunJob)
	jobs.Get("/runs", h.controller.ListRuns)
}
