package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

const (
	msgInvalidBookingID = "invalid booking id"
	msgMissingUserID    = "missing user id"
	msgBookingNotFound  = "booking not found"
	msgForbidden        = "access denied"
)

type Handler struct {
	engine AllocationEngine
	logger Logger
}

func NewHandler(engine AllocationEngine, logger Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	actor := allocation.Actor{UserID: userID, Admin: middleware.IsAdmin(r.Context())}
	result, err := h.engine.CancelBooking(r.Context(), bookingID, actor)
	if err != nil {
		if errors.Is(err, allocation.ErrAccessDenied) {
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		if errors.Is(err, domain.ErrStorageTimeout) {
			h.logger.Warn("PATCH /bookings/{id}/cancel - Storage timeout: booking_id=%d", bookingID)
			handlers.RespondUnavailable(w)
			return
		}
		h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	switch result.Status {
	case domain.CancelNotFound:
		h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)

	case domain.CancelAlreadyCancelled:
		// Повторная отмена ничего не меняет
		h.logger.Info("PATCH /bookings/{id}/cancel - Already cancelled: booking_id=%d", bookingID)
		handlers.RespondJSON(w, http.StatusOK, FromCancelResult(result))

	default:
		h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d, user_id=%d, notified=%d",
			bookingID, userID, result.Notified)
		handlers.RespondJSON(w, http.StatusOK, FromCancelResult(result))
	}
}
