package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"staffdir/internal/domain"
	applog "staffdir/internal/log"
	"staffdir/internal/services"
	"staffdir/internal/validate"
)

type UserHandler struct {
	Directory *services.DirectoryService
	Updates   *services.UpdateService
}

// GET /users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Directory.List()
	if err != nil {
		applog.Error(c, "users.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON("Server error")
	}
	return c.JSON(users)
}

// GET /users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	u, err := h.Directory.ByID(c.Params("id"))
	if err != nil {
		applog.Error(c, "users.get.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON("Server error")
	}
	if u == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	return c.JSON(u)
}

// PATCH /users/:id
func (h *UserHandler) Patch(c *fiber.Ctx) error {
	var body struct {
		UserFields map[string]any `json:"userFields"`
		CalledBy   domain.Caller  `json:"calledBy"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Malformed request body",
		})
	}
	targetID := c.Params("id")
	if _, ok := validate.ID(targetID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	c.Locals("caller_id", body.CalledBy.ID)

	u, err := h.Updates.Apply(targetID, body.CalledBy, body.UserFields)
	switch {
	case errors.Is(err, services.ErrNoPermission):
		applog.Security(c, "users.patch.denied", map[string]any{"target": targetID, "caller": body.CalledBy.ID})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error", "message": "No permission for such action",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error", "message": "No user with such Id",
		})
	case errors.Is(err, services.ErrInvalidFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Invalid field payload",
		})
	case err != nil:
		applog.Error(c, "users.patch.fail", err, map[string]any{"target": targetID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Something went wrong!",
		})
	}

	applog.Audit(c, "users.patch", map[string]any{"target": targetID, "caller": body.CalledBy.ID})
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "User updated successfully",
		"user":    u,
	})
}

// GET /directory — the server-rendered roster page.
func (h *UserHandler) DirectoryPage(c *fiber.Ctx) error {
	users, err := h.Directory.List()
	if err != nil {
		applog.Error(c, "directory.page.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load directory")
	}
	return c.Render("directory", fiber.Map{"Users": users})
}
