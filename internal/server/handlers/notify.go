package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/iudanet/habitsync/internal/validation"
)

// Attacher принимает websocket соединения подписчиков
type Attacher interface {
	Attach(conn *websocket.Conn, clientID string)
}

// NotifyHandler переводит HTTP соединение в websocket и передает его хабу
type NotifyHandler struct {
	hub      Attacher
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewNotifyHandler создает handler подписки на уведомления
func NewNotifyHandler(logger *slog.Logger, hub Attacher) *NotifyHandler {
	return &NotifyHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Subscribe обрабатывает GET /api/sync/ws?client_id=...
func (h *NotifyHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if err := validation.ValidateID("client", clientID); err != nil {
		h.logger.Warn("Rejected websocket subscription", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("Failed to upgrade connection", "client_id", clientID, "error", err)
		return
	}

	h.logger.Info("Websocket subscriber connected", "client_id", clientID)
	h.hub.Attach(conn, clientID)
}
