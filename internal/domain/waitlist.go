package domain

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// WaitlistKey ключ очереди ожидания: (направление, дата, желаемое время)
type WaitlistKey struct {
	SubServiceID int64
	Date         time.Time
	DesiredTime  types.TimeLabel
}

// WaitlistEntry пользователь, ожидающий освобождения места в заполненном слоте
type WaitlistEntry struct {
	ID           int64
	UserID       int64
	ServiceID    int64
	SubServiceID int64
	Date         time.Time
	DesiredTime  types.TimeLabel
	CreatedAt    time.Time
	NotifiedAt   *time.Time
}

// Key возвращает ключ очереди
func (e *WaitlistEntry) Key() WaitlistKey {
	return WaitlistKey{SubServiceID: e.SubServiceID, Date: e.Date, DesiredTime: e.DesiredTime}
}

// SlotKey ключ слота, которого ждёт пользователь
func (k WaitlistKey) SlotKey() SlotKey {
	return SlotKey{SubServiceID: k.SubServiceID, Date: k.Date, Time: k.DesiredTime}
}
