package get_account

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts/models"
)

type AccountService interface {
	GetAccount(ctx context.Context, req *models.GetAccountRequest) (*models.AccountResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
