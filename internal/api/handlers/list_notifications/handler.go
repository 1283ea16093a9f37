package list_notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/notifications"
	"github.com/m04kA/EffiQ-BookingService/internal/service/notifications/models"
)

const (
	msgInvalidUserID = "invalid user id"
	msgMissingUserID = "missing user id"
	msgInvalidParams = "invalid query parameters, expected unread=true|false and a positive limit"
	msgForbidden     = "access denied"
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

// Handle GET /api/v1/users/{userId}/notifications
// Query params: unread, limit (опционально)
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

	req := &models.ListRequest{
		RequesterID: requesterID,
		IsAdmin:     middleware.IsAdmin(r.Context()),
		UserID:      userID,
	}
	query := r.URL.Query()
	if s := query.Get("unread"); s != "" {
		if req.UnreadOnly, err = strconv.ParseBool(s); err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}
	if s := query.Get("limit"); s != "" {
		if req.Limit, err = strconv.Atoi(s); err != nil || req.Limit <= 0 {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, notifications.ErrAccessDenied) {
			h.logger.Warn("GET /users/{id}/notifications - Access denied: user_id=%d, requester_id=%d", userID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /users/{id}/notifications - Failed to list notifications: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
