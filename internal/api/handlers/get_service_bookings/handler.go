package get_service_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings"
)

const (
	msgInvalidServiceID = "invalid service id"
	msgMissingUserID    = "missing user id"
	msgInvalidParams    = "invalid query parameters"
	msgServiceNotFound  = "service not found"
	msgForbidden        = "access denied"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/services/{serviceId}/bookings
// Query params: subServiceId, status, date, startDate, endDate (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /admin/services/{id}/bookings - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /admin/services/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(serviceID, userID, middleware.IsAdmin(r.Context()), r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /admin/services/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит права администратора услуги
	result, err := h.service.GetServiceBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrServiceNotFound):
			h.logger.Warn("GET /admin/services/{id}/bookings - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /admin/services/{id}/bookings - Access denied: service_id=%d, user_id=%d",
				serviceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /admin/services/{id}/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /admin/services/{id}/bookings - Failed to get bookings: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/services/{id}/bookings - Bookings retrieved successfully: service_id=%d, count=%d",
		serviceID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
