package bookings

import (
	"context"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error)
	ListByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// WaitlistRepository интерфейс листа ожидания
type WaitlistRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.WaitlistEntry, error)
	Position(ctx context.Context, entry *domain.WaitlistEntry) (int, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
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
