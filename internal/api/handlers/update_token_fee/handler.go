package update_token_fee

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/catalog"
	"github.com/m04kA/EffiQ-BookingService/internal/service/catalog/models"
)

const (
	msgInvalidSubServiceID = "invalid sub-service id"
	msgInvalidRequestBody  = "invalid request body"
	msgMissingUserID       = "missing user id"
	msgSubServiceNotFound  = "sub-service not found"
	msgForbidden           = "access denied"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/sub-services/{subServiceId}/token-fee
// Новая стоимость действует только для будущих бронирований
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subServiceID, err := handlers.PathInt64(r, "subServiceId")
	if err != nil {
		h.logger.Warn("PUT /admin/sub-services/{id}/token-fee - Invalid sub-service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubServiceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateTokenFeeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/sub-services/{id}/token-fee - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.IsAdmin = middleware.IsAdmin(r.Context())
	req.SubServiceID = subServiceID

	result, err := h.service.UpdateTokenFee(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSubServiceNotFound):
			h.logger.Warn("PUT /admin/sub-services/{id}/token-fee - Sub-service not found: sub_service_id=%d", subServiceID)
			handlers.RespondNotFound(w, msgSubServiceNotFound)

		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("PUT /admin/sub-services/{id}/token-fee - Access denied: sub_service_id=%d, user_id=%d",
				subServiceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("PUT /admin/sub-services/{id}/token-fee - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /admin/sub-services/{id}/token-fee - Failed to update fee: sub_service_id=%d, error=%v",
				subServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/sub-services/{id}/token-fee - Fee updated: sub_service_id=%d, fee=%d",
		subServiceID, result.TokenFee)
	handlers.RespondJSON(w, http.StatusOK, result)
}
