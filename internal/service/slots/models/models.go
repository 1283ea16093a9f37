package models

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// SlotRequest ключ слота и инициатор операции
type SlotRequest struct {
	UserID       int64     `json:"-"`
	IsAdmin      bool      `json:"-"`
	SubServiceID int64     `json:"-"`
	Date         time.Time `json:"-"`
	Time         string    `json:"time"`
}

// AddSlotRequest запрос на создание слота
type AddSlotRequest struct {
	SlotRequest
	Capacity *int `json:"capacity,omitempty"` // по умолчанию domain.DefaultSlotCapacity
}

// SetCapacityRequest запрос на изменение вместимости
type SetCapacityRequest struct {
	SlotRequest
	Capacity int `json:"capacity"`
}

// DeleteSlotRequest запрос на удаление слота
type DeleteSlotRequest struct {
	SlotRequest
	Force bool `json:"force"` // удалить даже при наличии бронирований
}

// SlotResponse ответ с данными слота
type SlotResponse struct {
	SubServiceID int64  `json:"subServiceId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Capacity     int    `json:"capacity"`
	Booked       int    `json:"booked"`
	Available    int    `json:"available"`
	Notified     int    `json:"notified,omitempty"` // уведомлено из листа ожидания
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.TimeSlot) *SlotResponse {
	if s == nil {
		return nil
	}
	return &SlotResponse{
		SubServiceID: s.SubServiceID,
		Date:         s.Date.Format(domain.DateFormat),
		Time:         s.Time.String(),
		Capacity:     s.Capacity,
		Booked:       s.Booked,
		Available:    s.Available(),
	}
}
