package server

import (
	"errors"
	"log/slog"
	"strings"

	"placement/internal/models"
	"placement/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// ActionErrorResponse is the body of a failed optimistic action. State is the view after
// reconciliation, i.e. the rolled-back state.
type ActionErrorResponse struct {
	models.ErrorResponse
	State any `json:"state,omitempty"`
}

// errorHandler renders errors that escape handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	return respondError(c, err)
}

// respondError writes err with the status its code maps to.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		observability.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("code", models.CodeOf(err)),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

// parseID reads a non-empty route parameter. On failure it writes a 400 JSON response
// and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (string, error) {
	id := strings.TrimSpace(c.Params(param))
	if id == "" || strings.ContainsAny(id, "/?#") {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid "+param))
		return "", errResponseWritten
	}
	return id, nil
}

// parseLimit reads the limit query parameter, clamped to [1, pageSize].
func parseLimit(c *fiber.Ctx, pageSize int) int {
	limit := c.QueryInt("limit", pageSize)
	if limit <= 0 || limit > pageSize {
		return pageSize
	}
	return limit
}
