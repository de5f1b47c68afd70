package analytics

import (
	"errors"
	"fmt"

	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsController struct {
	Service AnalyticsService
}

func NewAnalyticsController(service AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Service: service}
}

func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidArgument):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// Department godoc
func (ctrl *AnalyticsController) Department(c *fiber.Ctx) error {
	summary, err := ctrl.Service.Department(c.UserContext(), middleware.Claims(c), c.Query("department"), c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// Breakdown godoc
func (ctrl *AnalyticsController) Breakdown(c *fiber.Ctx) error {
	top := c.QueryInt("top", 0)
	table, err := ctrl.Service.Breakdown(c.UserContext(), middleware.Claims(c), c.Query("department"), c.Query("period"), top)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(table)
}

// Export godoc
func (ctrl *AnalyticsController) Export(c *fiber.Ctx) error {
	file, err := ctrl.Service.ExportDepartment(c.UserContext(), middleware.Claims(c),
		c.Query("department"), c.Query("period"), c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Send(file.Data)
}

// Me godoc
func (ctrl *AnalyticsController) Me(c *fiber.Ctx) error {
	summary, err := ctrl.Service.Me(c.UserContext(), middleware.Claims(c), c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// Company godoc
func (ctrl *AnalyticsController) Company(c *fiber.Ctx) error {
	summary, err := ctrl.Service.Company(c.UserContext(), middleware.Claims(c), c.Query("period"), c.Query("scope"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
