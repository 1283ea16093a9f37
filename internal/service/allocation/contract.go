package allocation

import (
	"context"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// SlotStore хранилище временных слотов
type SlotStore interface {
	Get(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error)
	ListByDate(ctx context.Context, subServiceID int64, date time.Time) ([]*domain.TimeSlot, error)
	Reserve(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error)
	Release(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error)
}

// BookingLedger журнал бронирований
type BookingLedger interface {
	Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, actorID int64, at time.Time) (*domain.Booking, error)
	Reschedule(ctx context.Context, id int64, key domain.SlotKey, actorID int64, expectedVersion int, at time.Time) (*domain.Booking, error)
	ExistsConfirmed(ctx context.Context, userID int64, key domain.SlotKey) (bool, error)
}

// WaitlistQueue очередь ожидания
type WaitlistQueue interface {
	Enqueue(ctx context.Context, entry domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	Get(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	PeekOldest(ctx context.Context, key domain.WaitlistKey, n int, pendingOnly bool) ([]*domain.WaitlistEntry, error)
	Remove(ctx context.Context, id int64) error
	RemoveForUser(ctx context.Context, userID int64, key domain.WaitlistKey) (int64, error)
	Position(ctx context.Context, entry *domain.WaitlistEntry) (int, error)
	MarkNotified(ctx context.Context, ids []int64, at time.Time) error
	ListPendingKeys(ctx context.Context, from time.Time) ([]domain.WaitlistKey, error)
}

// AccountStore балансы пользователей
type AccountStore interface {
	Ensure(ctx context.Context, userID int64) (*domain.UserAccount, error)
	Debit(ctx context.Context, userID int64, amount int64) (*domain.UserAccount, error)
	Credit(ctx context.Context, userID int64, amount int64) (*domain.UserAccount, error)
}

// Catalog каталог услуг
type Catalog interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetSubService(ctx context.Context, id int64) (*domain.SubService, error)
}

// Notifier рассылает уведомления пользователям из листа ожидания
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string, nctx domain.NotificationContext) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики движка распределения
type Metrics interface {
	RecordAllocation(status string)
	RecordWaitlistNotification(err error)
	RecordConflictRetry(operation string)
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
