package emergency_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	emergencyBooking "github.com/m04kA/EffiQ-BookingService/internal/usecase/emergency_booking"
)

const (
	msgInvalidRequestBody  = "invalid request body"
	msgMissingUserID       = "missing user id"
	msgSubServiceNotFound  = "sub-service not found"
	msgInsufficientBalance = "insufficient token balance for an emergency booking"
)

type Handler struct {
	useCase EmergencyBookingUseCase
	logger  Logger
}

func NewHandler(useCase EmergencyBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/emergency-bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req EmergencyBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /emergency-bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, emergencyBooking.ErrSubServiceNotFound):
			h.logger.Warn("POST /emergency-bookings - Sub-service not found: sub_service_id=%d", req.SubServiceID)
			handlers.RespondNotFound(w, msgSubServiceNotFound)

		case errors.Is(err, emergencyBooking.ErrInsufficientBalance):
			h.logger.Warn("POST /emergency-bookings - Insufficient balance: user_id=%d", userID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgInsufficientBalance)

		case errors.Is(err, emergencyBooking.ErrInvalidInput):
			h.logger.Warn("POST /emergency-bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /emergency-bookings - Failed to create emergency booking: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /emergency-bookings - Emergency booking created: booking_id=%d, reference=%s, user_id=%d",
		result.ID, result.ReferenceNumber, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
