package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"staffdir/internal/domain"
	applog "staffdir/internal/log"
	"staffdir/internal/services"
	"staffdir/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /sign-in
// Unknown email, wrong password and malformed email all get the same
// response, so the endpoint never reveals which part was wrong.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Malformed request body"})
	}

	email, ok := validate.Email(body.Email)
	if !ok {
		applog.Security(c, "auth.signin.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid Credentials"})
	}

	u, err := h.Auth.SignIn(email, body.Password)
	if errors.Is(err, services.ErrBadCreds) {
		applog.Security(c, "auth.signin.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid Credentials"})
	}
	if err != nil {
		applog.Error(c, "auth.signin.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	applog.Audit(c, "auth.signin.success", map[string]any{"email": email})
	return c.JSON(u)
}

// POST /sign-up
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var candidate domain.User
	if err := c.BodyParser(&candidate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Malformed request body",
		})
	}

	email, ok := validate.Email(candidate.Email)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "A valid email is required",
		})
	}
	candidate.Email = email
	if !validate.Password(candidate.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Password does not meet the policy",
		})
	}

	created, err := h.Auth.SignUp(candidate)
	if errors.Is(err, services.ErrEmailTaken) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "Conflict",
			"message": fmt.Sprintf("User with email %q already exists", email),
		})
	}
	if err != nil {
		applog.Error(c, "auth.signup.fail", err, map[string]any{"email": email})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Something went wrong!",
		})
	}

	applog.Audit(c, "auth.signup.success", map[string]any{"email": email, "user_id": created.ID})
	// The echoed record carries the stored hash, never the plaintext.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "User created successfully",
		"user":    created,
	})
}
