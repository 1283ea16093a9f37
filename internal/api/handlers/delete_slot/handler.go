package delete_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/slots"
)

const (
	msgInvalidSubServiceID = "invalid sub-service id"
	msgInvalidParams       = "invalid query parameters, expected date=YYYY-MM-DD, time and optional force"
	msgMissingUserID       = "missing user id"
	msgSubServiceNotFound  = "sub-service not found"
	msgSlotNotFound        = "time slot not found"
	msgHasBookings         = "time slot has bookings, use force=true to delete it anyway"
	msgForbidden           = "access denied"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/sub-services/{subServiceId}/slots?date=&time=&force=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subServiceID, err := handlers.PathInt64(r, "subServiceId")
	if err != nil {
		h.logger.Warn("DELETE /admin/sub-services/{id}/slots - Invalid sub-service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubServiceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(userID, middleware.IsAdmin(r.Context()), subServiceID, r.URL.Query())
	if err != nil {
		h.logger.Warn("DELETE /admin/sub-services/{id}/slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.DeleteSlot(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSubServiceNotFound):
			handlers.RespondNotFound(w, msgSubServiceNotFound)

		case errors.Is(err, slots.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("DELETE /admin/sub-services/{id}/slots - Access denied: sub_service_id=%d, user_id=%d",
				subServiceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrSlotHasBookings):
			handlers.RespondConflict(w, msgHasBookings)

		case errors.Is(err, slots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("DELETE /admin/sub-services/{id}/slots - Failed to delete slot: sub_service_id=%d, error=%v",
				subServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/sub-services/{id}/slots - Slot deleted: sub_service_id=%d, date=%s, time=%s, booked=%d",
		subServiceID, result.Date, result.Time, result.Booked)
	handlers.RespondJSON(w, http.StatusOK, result)
}
