package handlers

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/realtime"
)

// SocketHandler upgrades /ws connections and hands them to the hub.
type SocketHandler struct {
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewSocketHandler constructs handler.
func NewSocketHandler(hub *realtime.Hub, logger *zap.Logger) *SocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocketHandler{hub: hub, logger: logger}
}

// RequireUpgrade rejects plain HTTP requests to the socket endpoint.
func (h *SocketHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve returns the websocket handler.
func (h *SocketHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		if err := h.hub.Serve(context.Background(), conn); err != nil {
			h.logger.Debug("websocket session rejected", zap.Error(err))
		}
	})
}
