package list_services

import (
	"net/http"
	"strings"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
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

// Handle GET /api/v1/services
// Query params: category (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var category *string
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		category = &c
	}

	result, err := h.service.ListServices(r.Context(), category)
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services - Services retrieved successfully: count=%d", len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}
