package allocation

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// Actor пользователь, выполняющий операцию
type Actor struct {
	UserID int64
	Admin  bool // глобальная роль администратора
}

// BookRequest запрос на бронирование слота
type BookRequest struct {
	UserID       int64
	ServiceID    int64 // опционально, должен совпадать с услугой направления
	SubServiceID int64
	Date         time.Time
	Time         types.TimeLabel
}

// BookResult исход попытки бронирования
type BookResult struct {
	Status           domain.AllocationStatus
	Booking          *domain.Booking
	WaitlistEntry    *domain.WaitlistEntry
	WaitlistPosition int
	Reason           domain.RejectReason
}

// CancelResult результат отмены
type CancelResult struct {
	Status   domain.CancelStatus
	Booking  *domain.Booking
	Notified int // сколько пользователей из очереди уведомлено
}

// RescheduleRequest запрос на перенос бронирования
type RescheduleRequest struct {
	BookingID int64
	Actor     Actor
	NewDate   time.Time
	NewTime   types.TimeLabel
}

// RescheduleResult результат переноса
type RescheduleResult struct {
	Status   domain.RescheduleStatus
	Booking  *domain.Booking
	Notified int
}

// WaitlistStatus запись листа ожидания и её позиция
type WaitlistStatus struct {
	Entry    *domain.WaitlistEntry
	Position int
}

// Config параметры движка
type Config struct {
	PromoteBatch    int           // сколько пользователей уведомлять об освободившемся слоте
	ConflictRetries int           // повторы при конкурентном конфликте
	RetryBaseDelay  time.Duration // задержка перед первым повтором
	StorageTimeout  time.Duration // таймаут одной операции движка, 0 - без таймаута
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		PromoteBatch:    domain.DefaultPromoteBatch,
		ConflictRetries: 2,
		RetryBaseDelay:  20 * time.Millisecond,
		StorageTimeout:  5 * time.Second,
	}
}
