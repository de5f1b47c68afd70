package department

import (
	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DepartmentController struct {
	Service DepartmentService
}

func NewDepartmentController(service DepartmentService) *DepartmentController {
	return &DepartmentController{Service: service}
}

// List godoc
func (ctrl *DepartmentController) List(c *fiber.Ctx) error {
	names, err := ctrl.Service.List(c.UserContext(), middleware.Claims(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"departments": names})
}
