package handler

import (
	"context"
	"encoding/json"

	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/pkg/serverutils"
	"ppods-be/internal/repository/memory"
	internalWS "ppods-be/internal/websocket"
	"ppods-be/pkg/appstate"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// clientFrame is what the view layer may send over the socket. Only the host
// light/dark signal is accepted.
type clientFrame struct {
	Type  string `json:"type"`
	Theme string `json:"theme"`
}

const frameSystemTheme = "systemTheme"

type StateStreamHandler struct {
	registry *memory.StoreRegistry
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewStateStreamHandler(registry *memory.StoreRegistry, hub *internalWS.Hub, log logger.ILogger) *StateStreamHandler {
	return &StateStreamHandler{
		registry: registry,
		hub:      hub,
		logger:   log,
	}
}

func (h *StateStreamHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Get("/ws/state", auth, h.ServeWs)
}

// ServeWs upgrades the request and streams the user's state snapshots. The first
// frame is the current snapshot; every committed change follows.
func (h *StateStreamHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID := serverutils.UserID(c)

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("StateStream", "Starting WebSocket session", map[string]interface{}{"user_id": userID})

		ctx := context.Background()
		client := internalWS.NewClient(h.hub, conn, userID)
		client.OnMessage = func(data []byte) { h.handleFrame(ctx, userID, data) }

		h.hub.Register(client)
		h.registry.Get(ctx, userID).View(func(st appstate.State) {
			h.hub.SendSnapshot(client, st)
		})

		client.Serve()
		h.logger.Info("StateStream", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *StateStreamHandler) handleFrame(ctx context.Context, userID string, data []byte) {
	var frame clientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.logger.Debug("StateStream", "Ignoring malformed frame", map[string]interface{}{"user_id": userID})
		return
	}

	switch frame.Type {
	case frameSystemTheme:
		if err := h.registry.Get(ctx, userID).SetSystemTheme(ctx, appstate.Theme(frame.Theme)); err != nil {
			h.logger.Warn("StateStream", "Rejected system theme", map[string]interface{}{
				"user_id": userID,
				"theme":   frame.Theme,
			})
		}
	default:
		h.logger.Debug("StateStream", "Ignoring frame", map[string]interface{}{"user_id": userID, "type": frame.Type})
	}
}
