package domain

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	// StatusCompleted никогда не сохраняется, вычисляется при чтении (см. EffectiveStatus)
	StatusCompleted BookingStatus = "completed"
)

// BookingFor для кого сделана экстренная запись
type BookingFor string

const (
	BookingForSelf  BookingFor = "self"
	BookingForOther BookingFor = "other"
)

// Booking represents a slot booking in the system
type Booking struct {
	ID           int64
	UserID       int64
	ServiceID    int64
	SubServiceID int64
	Date         time.Time
	Time         types.TimeLabel

	// OriginalTimeSlot время, которое пользователь запросил изначально (до переноса или перебронирования)
	OriginalTimeSlot types.TimeLabel
	WasRescheduled   bool

	TokenFee int64
	Status   BookingStatus

	CancelledAt   *time.Time
	CancelledBy   *int64
	RescheduledAt *time.Time
	RescheduledBy *int64

	// Экстренная запись: без слота, обрабатывается вне очереди
	Emergency       bool
	ReferenceNumber *string
	BookingFor      *BookingFor
	Details         *string

	// Version номер версии для оптимистичной блокировки
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// HasSlot returns true if the booking occupies a time slot
func (b *Booking) HasSlot() bool {
	return !b.Emergency
}

// SlotKey возвращает ключ слота, который занимает бронирование
func (b *Booking) SlotKey() SlotKey {
	return SlotKey{SubServiceID: b.SubServiceID, Date: b.Date, Time: b.Time}
}

// AppointmentAt момент начала приёма в указанной часовой зоне
func (b *Booking) AppointmentAt(loc *time.Location) (time.Time, error) {
	return b.Time.At(b.Date, loc)
}

// EffectiveStatus статус, который видит пользователь.
// Отменённое бронирование остаётся отменённым; подтверждённое становится завершённым,
// как только наступило время приёма. Это единственное правило вычисления Completed.
func (b *Booking) EffectiveStatus(now time.Time, loc *time.Location) BookingStatus {
	if b.Status != StatusConfirmed {
		return b.Status
	}

	at, err := b.AppointmentAt(loc)
	if err != nil {
		return b.Status
	}

	if now.After(at) {
		return StatusCompleted
	}
	return b.Status
}

// BookingDraft данные для создания нового подтверждённого бронирования
type BookingDraft struct {
	UserID           int64
	ServiceID        int64
	SubServiceID     int64
	Date             time.Time
	Time             types.TimeLabel
	OriginalTimeSlot types.TimeLabel
	WasRescheduled   bool
	TokenFee         int64

	Emergency       bool
	ReferenceNumber *string
	BookingFor      *BookingFor
	Details         *string
}

// BookingsFilter фильтр для получения бронирований услуги (админка)
type BookingsFilter struct {
	ServiceID    int64          // Обязательный параметр
	SubServiceID *int64         // Фильтр по направлению (опционально)
	StartDate    *time.Time     // Начало периода (опционально)
	EndDate      *time.Time     // Конец периода (опционально)
	Status       *BookingStatus // Хранимый статус (confirmed/cancelled), опционально
}
