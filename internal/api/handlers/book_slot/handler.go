package book_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidSlot        = "invalid date or time, expected YYYY-MM-DD and a time label like 9:00 AM"
	msgMissingUserID      = "missing user id"
	msgInvalidInput       = "invalid booking request"
	msgSubServiceNotFound = "sub-service not found"
	msgSlotNotFound       = "time slot not found"
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

// Handle POST /api/v1/bookings
// 201 - забронирован слот, 202 - пользователь в листе ожидания, 409 - отказ
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	engineReq, err := req.ToEngineRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	result, err := h.engine.BookSlot(r.Context(), engineReq)
	if err != nil {
		switch {
		case errors.Is(err, allocation.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, allocation.ErrSubServiceNotFound):
			h.logger.Warn("POST /bookings - Sub-service not found: sub_service_id=%d", req.SubServiceID)
			handlers.RespondNotFound(w, msgSubServiceNotFound)

		case errors.Is(err, allocation.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: sub_service_id=%d, date=%s, time=%q",
				req.SubServiceID, req.Date, req.Time)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, domain.ErrStorageTimeout):
			h.logger.Warn("POST /bookings - Storage timeout: user_id=%d, sub_service_id=%d", userID, req.SubServiceID)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to book slot: user_id=%d, sub_service_id=%d, error=%v",
				userID, req.SubServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Allocation finished: user_id=%d, sub_service_id=%d, status=%s",
		userID, req.SubServiceID, result.Status)
	handlers.RespondJSON(w, StatusCode(result.Status), FromBookResult(result))
}
