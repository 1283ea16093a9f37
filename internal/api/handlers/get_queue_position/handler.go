package get_queue_position

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	queuePosition "github.com/m04kA/EffiQ-BookingService/internal/usecase/queue_position"
)

const (
	msgInvalidBookingID = "invalid booking id"
	msgMissingUserID    = "missing user id"
	msgNotFound         = "booking not found"
	msgNotConfirmed     = "booking is cancelled"
	msgForbidden        = "access denied"
)

type Handler struct {
	useCase QueuePositionUseCase
	logger  Logger
}

func NewHandler(useCase QueuePositionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/queue-position
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/queue-position - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &queuePosition.Request{
		BookingID: bookingID,
		UserID:    userID,
		IsAdmin:   middleware.IsAdmin(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, queuePosition.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, queuePosition.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id}/queue-position - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, queuePosition.ErrNotConfirmed):
			handlers.RespondConflict(w, msgNotConfirmed)

		default:
			h.logger.Error("GET /bookings/{id}/queue-position - Failed to get position: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id}/queue-position - Position computed: booking_id=%d, position=%d/%d",
		bookingID, result.Position, result.Total)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
