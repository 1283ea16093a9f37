package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/EffiQ-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidSubServiceID = "invalid sub-service id"
	msgMissingDate         = "date is required"
	msgInvalidDate         = "invalid date format, expected YYYY-MM-DD"
	msgSubServiceNotFound  = "sub-service not found"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/sub-services/{subServiceId}/slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subServiceID, err := handlers.PathInt64(r, "subServiceId")
	if err != nil {
		h.logger.Warn("GET /sub-services/{id}/slots - Invalid sub-service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubServiceID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /sub-services/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(subServiceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /sub-services/{id}/slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrSubServiceNotFound):
			h.logger.Warn("GET /sub-services/{id}/slots - Sub-service not found: sub_service_id=%d", subServiceID)
			handlers.RespondNotFound(w, msgSubServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /sub-services/{id}/slots - Failed to get slots: sub_service_id=%d, error=%v",
				subServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /sub-services/{id}/slots - Slots retrieved successfully: sub_service_id=%d, date=%s, slots_count=%d",
		subServiceID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
