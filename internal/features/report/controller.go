package report

import (
	"errors"
	"strconv"

	"go-worklog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{Service: service}
}

func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func queryInt(c *fiber.Ctx, key string) int64 {
	n, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return n
}

// Submit godoc
func (ctrl *ReportController) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	saved, err := ctrl.Service.Submit(c.UserContext(), middleware.Claims(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saved)
}

// MyToday godoc
func (ctrl *ReportController) MyToday(c *fiber.Ctx) error {
	r, err := ctrl.Service.Today(c.UserContext(), middleware.Claims(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"report": r})
}

// MyHistory godoc
func (ctrl *ReportController) MyHistory(c *fiber.Ctx) error {
	items, err := ctrl.Service.History(c.UserContext(), middleware.Claims(c), queryInt(c, "limit"), queryInt(c, "skip"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// ByDay godoc
func (ctrl *ReportController) ByDay(c *fiber.Ctx) error {
	date, items, err := ctrl.Service.ByDay(c.UserContext(), middleware.Claims(c), c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"date": date, "items": items})
}

// ByUser godoc
func (ctrl *ReportController) ByUser(c *fiber.Ctx) error {
	items, err := ctrl.Service.ByUser(c.UserContext(), middleware.Claims(c),
		c.Params("id"), c.Query("from"), c.Query("to"), queryInt(c, "limit"), queryInt(c, "skip"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// Search godoc
func (ctrl *ReportController) Search(c *fiber.Ctx) error {
	items, err := ctrl.Service.Search(c.UserContext(), middleware.Claims(c), SearchQuery{
		Text:       c.Query("q"),
		Department: c.Query("department"),
		From:       c.Query("from"),
		To:         c.Query("to"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// Status godoc
func (ctrl *ReportController) Status(c *fiber.Ctx) error {
	sheet, err := ctrl.Service.Status(c.UserContext(), middleware.Claims(c), c.Query("department"), c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sheet)
}
