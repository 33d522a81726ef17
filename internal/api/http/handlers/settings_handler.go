package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	apperrors "github.com/spec-kit/chat-service/pkg/util/errorutil"
)

// SettingsStore reads and updates application switches.
type SettingsStore interface {
	List(ctx context.Context) (map[string]bool, error)
	Update(ctx context.Context, name string, value bool) error
}

// SettingsHandler exposes the settings endpoints.
type SettingsHandler struct {
	settings SettingsStore
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// List GET /api/settings.
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	all, err := h.settings.List(c.UserContext())
	if err != nil {
		return serviceError(err, "Server error fetching settings.")
	}
	return c.JSON(all)
}

// Update PUT /api/settings/:name.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil || req.SettingValue == nil {
		return apperrors.NewValidationError("settingValue must be a boolean.", nil)
	}
	if err := h.settings.Update(c.UserContext(), c.Params("name"), *req.SettingValue); err != nil {
		return serviceError(err, "Server error updating setting.")
	}
	return c.JSON(dto.MessageResponse{Message: "Setting updated successfully."})
}
