package reminder

import (
	"errors"

	common_models "go-worklog/internal/common/models"
	"go-worklog/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// viewerLocal carries the viewer across the websocket upgrade, which only copies string-keyed locals
const viewerLocal = "reminderViewer"

type ReminderController struct {
	Service ReminderService
	Hub     *Hub
}

func NewReminderController(service ReminderService, hub *Hub) *ReminderController {
	return &ReminderController{Service: service, Hub: hub}
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

// Inbox godoc
func (ctrl *ReminderController) Inbox(c *fiber.Ctx) error {
	items, err := ctrl.Service.Inbox(c.UserContext(), middleware.Claims(c), c.Query("department"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// Sent godoc
func (ctrl *ReminderController) Sent(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("includeInactive") || c.Query("includeInactive") == "1"
	items, err := ctrl.Service.Sent(c.UserContext(), middleware.Claims(c), includeInactive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// Create godoc
func (ctrl *ReminderController) Create(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	r, err := ctrl.Service.Create(c.UserContext(), middleware.Claims(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

// Delete godoc
func (ctrl *ReminderController) Delete(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.UserContext(), middleware.Claims(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Upgrade admits websocket handshakes and stashes the caller for Stream
func (ctrl *ReminderController) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	claims := middleware.Claims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	c.Locals(viewerLocal, Viewer{
		ID:         claims.UserID,
		Role:       common_models.NormalizeRole(claims.Role),
		Department: claims.Department,
	})
	return c.Next()
}

// Stream holds a websocket open and pushes reminders the caller can see
func (ctrl *ReminderController) Stream(c *websocket.Conn) {
	viewer, _ := c.Locals(viewerLocal).(Viewer)
	ctrl.Hub.Serve(c, viewer)
}
