package models

import (
	"errors"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetBookingRequest запрос на получение одного бронирования
type GetBookingRequest struct {
	BookingID int64
	UserID    int64 // кто запрашивает
	IsAdmin   bool  // глобальная роль администратора
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	RequesterID int64   `json:"-"`
	IsAdmin     bool    `json:"-"`
	UserID      int64   `json:"userId"`
	Status      *string `json:"status,omitempty"` // фильтр по производному статусу
}

// GetServiceBookingsRequest запрос на получение бронирований услуги (для администраторов)
type GetServiceBookingsRequest struct {
	UserID       int64      `json:"-"`
	IsAdmin      bool       `json:"-"`
	ServiceID    int64      `json:"serviceId"`
	SubServiceID *int64     `json:"subServiceId,omitempty"` // Фильтр по направлению (опционально)
	StartDate    *time.Time `json:"startDate,omitempty"`    // Начало периода (опционально)
	EndDate      *time.Time `json:"endDate,omitempty"`      // Конец периода (опционально)
	Status       *string    `json:"status,omitempty"`       // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр.
// Completed не хранится, поэтому для него из хранилища берутся подтверждённые бронирования.
func (r *GetServiceBookingsRequest) ToDomainFilter() (domain.BookingsFilter, *domain.BookingStatus, error) {
	filter := domain.BookingsFilter{
		ServiceID:    r.ServiceID,
		SubServiceID: r.SubServiceID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, nil, errors.New("endDate is before startDate")
	}

	if r.Status == nil {
		return filter, nil, nil
	}

	status, err := ToDomainBookingStatus(*r.Status)
	if err != nil {
		return filter, nil, err
	}

	stored := status
	if status == domain.StatusCompleted {
		stored = domain.StatusConfirmed
	}
	filter.Status = &stored

	return filter, &status, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64   `json:"id"`
	UserID           int64   `json:"userId"`
	ServiceID        int64   `json:"serviceId"`
	SubServiceID     *int64  `json:"subServiceId,omitempty"`
	Date             string  `json:"date"`               // "2025-10-15"
	TimeSlot         string  `json:"timeSlot,omitempty"` // "9:00 AM"
	OriginalTimeSlot string  `json:"originalTimeSlot,omitempty"`
	WasRescheduled   bool    `json:"wasRescheduled"`
	TokenFee         int64   `json:"tokenFee"`
	Status           string  `json:"status"`
	Emergency        bool    `json:"emergency,omitempty"`
	ReferenceNumber  *string `json:"referenceNumber,omitempty"`
	BookingFor       *string `json:"bookingFor,omitempty"`
	Details          *string `json:"details,omitempty"`

	CancelledAt   *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CancelledBy   *int64  `json:"cancelledBy,omitempty"`
	RescheduledAt *string `json:"rescheduledAt,omitempty"`
	RescheduledBy *int64  `json:"rescheduledBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// WaitlistEntryResponse запись листа ожидания пользователя
type WaitlistEntryResponse struct {
	ID           int64     `json:"id"`
	ServiceID    int64     `json:"serviceId"`
	SubServiceID int64     `json:"subServiceId"`
	Date         string    `json:"date"`
	DesiredTime  string    `json:"desiredTime"`
	Position     int       `json:"position"`
	NotifiedAt   *string   `json:"notifiedAt,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// WaitlistListResponse ответ со списком записей листа ожидания
type WaitlistListResponse struct {
	Entries []WaitlistEntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO с уже вычисленным статусом
func FromDomainBooking(b *domain.Booking, status domain.BookingStatus) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		ServiceID:        b.ServiceID,
		Date:             b.Date.Format(domain.DateFormat),
		TimeSlot:         b.Time.String(),
		OriginalTimeSlot: b.OriginalTimeSlot.String(),
		WasRescheduled:   b.WasRescheduled,
		TokenFee:         b.TokenFee,
		Status:           string(status),
		Emergency:        b.Emergency,
		ReferenceNumber:  b.ReferenceNumber,
		Details:          b.Details,
		CancelledBy:      b.CancelledBy,
		RescheduledBy:    b.RescheduledBy,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if b.SubServiceID != 0 {
		id := b.SubServiceID
		resp.SubServiceID = &id
	}
	if b.BookingFor != nil {
		bookingFor := string(*b.BookingFor)
		resp.BookingFor = &bookingFor
	}

	// Конвертируем даты в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}
	if b.RescheduledAt != nil {
		rescheduledStr := b.RescheduledAt.Format(time.RFC3339)
		resp.RescheduledAt = &rescheduledStr
	}

	return resp
}

// FromDomainWaitlistEntry конвертирует запись листа ожидания в DTO
func FromDomainWaitlistEntry(e *domain.WaitlistEntry, position int) WaitlistEntryResponse {
	resp := WaitlistEntryResponse{
		ID:           e.ID,
		ServiceID:    e.ServiceID,
		SubServiceID: e.SubServiceID,
		Date:         e.Date.Format(domain.DateFormat),
		DesiredTime:  e.DesiredTime.String(),
		Position:     position,
		CreatedAt:    e.CreatedAt,
	}
	if e.NotifiedAt != nil {
		notified := e.NotifiedAt.Format(time.RFC3339)
		resp.NotifiedAt = &notified
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	switch s {
	case domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
		return s, nil
	}

	return "", ErrInvalidStatus
}
