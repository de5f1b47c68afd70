package department

import (
	"go-worklog/internal/common/api"
	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/config"
	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DepartmentApi struct {
	controller *DepartmentController
	config     *config.Config
}

func NewDepartmentApi(controller *DepartmentController, config *config.Config) api.Route {
	return &DepartmentApi{
		controller: controller,
		config:     config,
	}
}

func (h *DepartmentApi) Setup(app *fiber.App) {
	app.Get("/api/departments",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(common_models.RoleAdmin, common_models.RoleSuperAdmin),
		h.controller.List,
	)
}
