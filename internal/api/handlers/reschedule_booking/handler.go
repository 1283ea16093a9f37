package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidSlot        = "invalid date or time, expected YYYY-MM-DD and a time label like 9:00 AM"
	msgMissingUserID      = "missing user id"
	msgBookingNotFound    = "booking not found"
	msgSlotNotFound       = "time slot not found"
	msgSlotFull           = "requested time slot is full"
	msgNotConfirmed       = "only confirmed bookings can be rescheduled"
	msgInvalidInput       = "booking cannot be moved to this slot"
	msgForbidden          = "access denied"
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

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor := allocation.Actor{UserID: userID, Admin: middleware.IsAdmin(r.Context())}
	engineReq, err := req.ToEngineRequest(bookingID, actor)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to parse slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	result, err := h.engine.RescheduleBooking(r.Context(), engineReq)
	if err != nil {
		switch {
		case errors.Is(err, allocation.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, allocation.ErrSlotNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not found: booking_id=%d, date=%s, time=%q",
				bookingID, req.Date, req.Time)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, allocation.ErrNotConfirmed):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not confirmed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, allocation.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, domain.ErrStorageTimeout):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Storage timeout: booking_id=%d", bookingID)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	switch result.Status {
	case domain.RescheduleNotFound:
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)

	case domain.RescheduleSlotFull:
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot full: booking_id=%d, date=%s, time=%q",
			bookingID, req.Date, req.Time)
		handlers.RespondConflict(w, msgSlotFull)

	default:
		h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: booking_id=%d, user_id=%d, notified=%d",
			bookingID, userID, result.Notified)
		handlers.RespondJSON(w, http.StatusOK, FromRescheduleResult(result))
	}
}
