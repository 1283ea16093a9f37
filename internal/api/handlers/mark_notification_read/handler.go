package mark_notification_read

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/notifications"
)

const (
	msgInvalidNotificationID = "invalid notification id"
	msgMissingUserID         = "missing user id"
	msgNotFound              = "notification not found"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/notifications/{notificationId}/read
// Отмечать можно только собственные уведомления
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	notificationID, err := handlers.PathInt64(r, "notificationId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, notificationID); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("PATCH /notifications/{id}/read - Failed to mark read: notification_id=%d, error=%v", notificationID, err)
		handlers.RespondInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
