package update_service

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/catalog/models"
)

type CatalogService interface {
	UpdateService(ctx context.Context, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
