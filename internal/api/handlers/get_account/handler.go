package get_account

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts"
	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts/models"
)

const (
	msgInvalidUserID = "invalid user id"
	msgMissingUserID = "missing user id"
	msgForbidden     = "access denied"
)

type Handler struct {
	service AccountService
	logger  Logger
}

func NewHandler(service AccountService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/account
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

	result, err := h.service.GetAccount(r.Context(), &models.GetAccountRequest{
		RequesterID: requesterID,
		IsAdmin:     middleware.IsAdmin(r.Context()),
		UserID:      userID,
	})
	if err != nil {
		if errors.Is(err, accounts.ErrAccessDenied) {
			h.logger.Warn("GET /users/{id}/account - Access denied: user_id=%d, requester_id=%d", userID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /users/{id}/account - Failed to get account: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
