package update_token_fee

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/catalog/models"
)

type CatalogService interface {
	UpdateTokenFee(ctx context.Context, req *models.UpdateTokenFeeRequest) (*models.SubServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
