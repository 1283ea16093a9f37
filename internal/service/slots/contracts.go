package slots

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Add(ctx context.Context, key domain.SlotKey, capacity int) (*domain.TimeSlot, error)
	SetCapacity(ctx context.Context, key domain.SlotKey, capacity int) (*domain.TimeSlot, error)
	Delete(ctx context.Context, key domain.SlotKey, force bool) (*domain.TimeSlot, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetSubService(ctx context.Context, id int64) (*domain.SubService, error)
}

// Promoter уведомляет лист ожидания о появившихся местах
type Promoter interface {
	PromoteFromWaitlist(ctx context.Context, key domain.SlotKey) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
