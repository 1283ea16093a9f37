package accounts

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// AccountRepository интерфейс репозитория балансов
type AccountRepository interface {
	Ensure(ctx context.Context, userID int64) (*domain.UserAccount, error)
	Credit(ctx context.Context, userID int64, amount int64) (*domain.UserAccount, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
