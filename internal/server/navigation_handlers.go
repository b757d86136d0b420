package server

import (
	"placement/internal/models"
	"placement/internal/navigation"

	"github.com/gofiber/fiber/v2"
)

// ActiveKeyResponse is the resolved sidebar entry for a path.
type ActiveKeyResponse struct {
	Role      string `json:"role"`
	Path      string `json:"path"`
	ActiveKey string `json:"active_key"`
}

func menuFor(c *fiber.Ctx) (navigation.Menu, bool) {
	role := c.Params("role")
	menu, ok := navigation.MenuFor(role)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("navigation menu", role))
	}
	return menu, ok
}

// GetMenu returns the sidebar of a role.
func (s *Server) GetMenu(c *fiber.Ctx) error {
	menu, ok := menuFor(c)
	if !ok {
		return nil
	}
	return c.JSON(menu)
}

// GetActiveKey resolves the active sidebar entry of a role for the path query parameter.
func (s *Server) GetActiveKey(c *fiber.Ctx) error {
	menu, ok := menuFor(c)
	if !ok {
		return nil
	}
	path := c.Query("path")
	return c.JSON(ActiveKeyResponse{
		Role:      c.Params("role"),
		Path:      path,
		ActiveKey: menu.Active(path),
	})
}
