package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/domain"
)

// Moderator manages user accounts.
type Moderator interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ApproveUser(ctx context.Context, id string) error
	RemoveUser(ctx context.Context, id string) error
}

// ModerationHandler exposes the admin user endpoints.
type ModerationHandler struct {
	moderation Moderator
}

// NewModerationHandler constructs handler.
func NewModerationHandler(moderation Moderator) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// ListUsers GET /api/users.
func (h *ModerationHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.moderation.ListUsers(c.UserContext())
	if err != nil {
		return serviceError(err, "Server error fetching users.")
	}
	out := make([]dto.UserListItem, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserListItem(u))
	}
	return c.JSON(out)
}

// Approve PUT /api/users/:id/approve.
func (h *ModerationHandler) Approve(c *fiber.Ctx) error {
	if err := h.moderation.ApproveUser(c.UserContext(), c.Params("id")); err != nil {
		return serviceError(err, "Server error approving user.")
	}
	return c.JSON(dto.MessageResponse{Message: "User approved successfully."})
}

// Remove DELETE /api/users/:id.
func (h *ModerationHandler) Remove(c *fiber.Ctx) error {
	if err := h.moderation.RemoveUser(c.UserContext(), c.Params("id")); err != nil {
		return serviceError(err, "Server error removing user.")
	}
	return c.JSON(dto.MessageResponse{Message: "User removed successfully."})
}
