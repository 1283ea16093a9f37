package top_up_balance

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts/models"
)

type AccountService interface {
	TopUp(ctx context.Context, req *models.TopUpRequest) (*models.AccountResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
