package add_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/slots"
)

const (
	msgInvalidSubServiceID = "invalid sub-service id"
	msgInvalidRequestBody  = "invalid request body"
	msgInvalidDate         = "invalid date format, expected YYYY-MM-DD"
	msgMissingUserID       = "missing user id"
	msgSubServiceNotFound  = "sub-service not found"
	msgSlotExists          = "time slot already exists"
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

// Handle POST /api/v1/admin/sub-services/{subServiceId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subServiceID, err := handlers.PathInt64(r, "subServiceId")
	if err != nil {
		h.logger.Warn("POST /admin/sub-services/{id}/slots - Invalid sub-service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubServiceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/sub-services/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID, middleware.IsAdmin(r.Context()), subServiceID)
	if err != nil {
		h.logger.Warn("POST /admin/sub-services/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.AddSlot(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSubServiceNotFound):
			h.logger.Warn("POST /admin/sub-services/{id}/slots - Sub-service not found: sub_service_id=%d", subServiceID)
			handlers.RespondNotFound(w, msgSubServiceNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("POST /admin/sub-services/{id}/slots - Access denied: sub_service_id=%d, user_id=%d",
				subServiceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrSlotExists):
			h.logger.Warn("POST /admin/sub-services/{id}/slots - Slot exists: sub_service_id=%d, date=%s, time=%q",
				subServiceID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotExists)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /admin/sub-services/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /admin/sub-services/{id}/slots - Failed to add slot: sub_service_id=%d, error=%v",
				subServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/sub-services/{id}/slots - Slot created: sub_service_id=%d, date=%s, time=%s, capacity=%d",
		subServiceID, result.Date, result.Time, result.Capacity)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
