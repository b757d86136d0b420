package server

import (
	"placement/internal/models"
	"placement/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PasswordCheckRequest is the body of a signup form password check.
type PasswordCheckRequest struct {
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// PasswordCheckResponse carries the strength meter and any policy violations.
type PasswordCheckResponse struct {
	validation.Strength
	PolicyError   string `json:"policy_error,omitempty"`
	UsernameError string `json:"username_error,omitempty"`
}

// CheckPassword scores a candidate password for the signup form.
func (s *Server) CheckPassword(c *fiber.Ctx) error {
	var req PasswordCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	resp := PasswordCheckResponse{Strength: validation.ScorePassword(req.Password)}
	if err := validation.ValidatePassword(req.Password); err != nil {
		resp.PolicyError = err.Error()
	}
	if req.Username != "" {
		if err := validation.ValidateUsername(req.Username); err != nil {
			resp.UsernameError = err.Error()
		}
	}
	return c.JSON(resp)
}
