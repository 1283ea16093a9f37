package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// ListByDate получает слоты направления на дату в порядке создания
	ListByDate(ctx context.Context, subServiceID int64, date time.Time) ([]*domain.TimeSlot, error)
	// ListDates получает даты, на которые у направления есть слоты
	ListDates(ctx context.Context, subServiceID int64, from *time.Time) ([]time.Time, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetSubService(ctx context.Context, id int64) (*domain.SubService, error)
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
