package create_sub_service

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateSubService(ctx context.Context, req *models.CreateSubServiceRequest) (*models.SubServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
