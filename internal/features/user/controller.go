package user

import (
	"errors"

	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

// Me godoc
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	profile, err := ctrl.Service.Me(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(profile)
}

// List godoc
func (ctrl *UserController) List(c *fiber.Ctx) error {
	department, users, err := ctrl.Service.ListByDepartment(c.UserContext(), middleware.Claims(c), c.Query("department"))
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"items":      users,
		"department": department,
	})
}
