package emergency_booking

import (
	"context"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error)
}

// AccountRepository интерфейс репозитория балансов
type AccountRepository interface {
	Ensure(ctx context.Context, userID int64) (*domain.UserAccount, error)
	Debit(ctx context.Context, userID int64, amount int64) (*domain.UserAccount, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetSubService(ctx context.Context, id int64) (*domain.SubService, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReferenceGenerator генерирует номер экстренной записи
type ReferenceGenerator interface {
	Generate() string
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
