package housekeeping

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type HousekeepingController struct {
	Service HousekeepingService
}

func NewHousekeepingController(service HousekeepingService) *HousekeepingController {
	return &HousekeepingController{Service: service}
}

// ListJobs godoc
func (ctrl *HousekeepingController) ListJobs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": ctrl.Service.Jobs()})
}

// ListRuns godoc
func (ctrl *HousekeepingController) ListRuns(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	runs, err := ctrl.Service.Runs(c.UserContext(), c.Query("job"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"items": runs})
}

// RunJob godoc
func (ctrl *HousekeepingController) RunJob(c *fiber.Ctx) error {
	run, err := ctrl.Service.RunNow(c.UserContext(), c.Params("name"))
	switch {
	case errors.Is(err, ErrUnknownJob):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "run": run})
	}
	return c.JSON(run)
}
