package notification_stream

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
)

const (
	msgInvalidUserID = "invalid user id"
	msgMissingUserID = "missing user id"
	msgForbidden     = "access denied"
	msgUnavailable   = "notification stream is unavailable"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Handler struct {
	subscriber Subscriber
	upgrader   websocket.Upgrader
	logger     Logger
}

// NewHandler создает обработчик потока уведомлений.
// checkOrigin nil означает проверку same-origin по умолчанию.
func NewHandler(subscriber Subscriber, checkOrigin func(r *http.Request) bool, logger Logger) *Handler {
	return &Handler{
		subscriber: subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// Handle GET /api/v1/users/{userId}/notifications/stream (websocket)
// Каждое сообщение - JSON событие уведомления.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if requesterID != userID && !middleware.IsAdmin(r.Context()) {
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, closeSub, err := h.subscriber.Subscribe(ctx, userID)
	if err != nil {
		h.logger.Error("GET /users/{id}/notifications/stream - Subscribe failed: user_id=%d, error=%v", userID, err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgUnavailable)
		return
	}
	defer func() { _ = closeSub() }()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже записал ответ с ошибкой
		h.logger.Warn("GET /users/{id}/notifications/stream - Upgrade failed: user_id=%d, error=%v", userID, err)
		return
	}
	defer conn.Close()

	h.logger.Info("GET /users/{id}/notifications/stream - Client connected: user_id=%d", userID)

	// Читаем входящие кадры только ради pong и закрытия соединения
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("GET /users/{id}/notifications/stream - Client disconnected: user_id=%d", userID)
			return

		case payload, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Warn("GET /users/{id}/notifications/stream - Write failed: user_id=%d, error=%v", userID, err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
