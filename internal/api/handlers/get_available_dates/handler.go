package get_available_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/EffiQ-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidSubServiceID = "invalid sub-service id"
	msgInvalidIncludePast  = "invalid includePast value"
	msgSubServiceNotFound  = "sub-service not found"
)

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	SubServiceID int64    `json:"subServiceId"`
	Dates        []string `json:"dates"`
}

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/sub-services/{subServiceId}/dates
// Query params: includePast (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subServiceID, err := handlers.PathInt64(r, "subServiceId")
	if err != nil {
		h.logger.Warn("GET /sub-services/{id}/dates - Invalid sub-service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubServiceID)
		return
	}

	req := &getAvailableSlots.DatesRequest{SubServiceID: subServiceID}
	if s := r.URL.Query().Get("includePast"); s != "" {
		if req.IncludePast, err = strconv.ParseBool(s); err != nil {
			handlers.RespondBadRequest(w, msgInvalidIncludePast)
			return
		}
	}

	result, err := h.useCase.ExecuteDates(r.Context(), req)
	if err != nil {
		if errors.Is(err, getAvailableSlots.ErrSubServiceNotFound) {
			h.logger.Warn("GET /sub-services/{id}/dates - Sub-service not found: sub_service_id=%d", subServiceID)
			handlers.RespondNotFound(w, msgSubServiceNotFound)
			return
		}
		h.logger.Error("GET /sub-services/{id}/dates - Failed to get dates: sub_service_id=%d, error=%v", subServiceID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := AvailableDatesResponse{SubServiceID: result.SubServiceID, Dates: make([]string, len(result.Dates))}
	for i, d := range result.Dates {
		resp.Dates[i] = d.Format(domain.DateFormat)
	}

	h.logger.Info("GET /sub-services/{id}/dates - Dates retrieved: sub_service_id=%d, count=%d", subServiceID, len(resp.Dates))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
