package top_up_balance

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts"
	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts/models"
)

const (
	msgInvalidUserID      = "invalid user id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user id"
	msgForbidden          = "only administrators can top up balances"
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

// Handle POST /api/v1/admin/users/{userId}/balance
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

	var req models.TopUpRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/users/{id}/balance - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.RequesterID = requesterID
	req.IsAdmin = middleware.IsAdmin(r.Context())
	req.UserID = userID

	result, err := h.service.TopUp(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrAccessDenied):
			h.logger.Warn("POST /admin/users/{id}/balance - Access denied: requester_id=%d", requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, accounts.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /admin/users/{id}/balance - Failed to top up: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/users/{id}/balance - Balance topped up: user_id=%d, amount=%d, balance=%d",
		userID, req.Amount, result.Balance)
	handlers.RespondJSON(w, http.StatusOK, result)
}
