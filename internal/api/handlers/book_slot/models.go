package book_slot

import (
	"net/http"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	ServiceID    int64  `json:"serviceId,omitempty"`
	SubServiceID int64  `json:"subServiceId"`
	Date         string `json:"date"` // "2025-10-15"
	Time         string `json:"time"` // "9:00 AM"
}

// BookSlotResponse исход бронирования
type BookSlotResponse struct {
	Status           string                        `json:"status"`
	Booking          *models.BookingResponse       `json:"booking,omitempty"`
	WaitlistEntry    *models.WaitlistEntryResponse `json:"waitlistEntry,omitempty"`
	WaitlistPosition int                           `json:"waitlistPosition,omitempty"`
	Reason           string                        `json:"reason,omitempty"`
}

// ToEngineRequest конвертирует HTTP запрос в запрос движка
func (r *BookSlotRequest) ToEngineRequest(userID int64) (allocation.BookRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return allocation.BookRequest{}, err
	}

	label, err := types.NewTimeLabel(r.Time)
	if err != nil {
		return allocation.BookRequest{}, err
	}

	return allocation.BookRequest{
		UserID:       userID,
		ServiceID:    r.ServiceID,
		SubServiceID: r.SubServiceID,
		Date:         date,
		Time:         label,
	}, nil
}

// FromBookResult конвертирует исход движка в HTTP ответ
func FromBookResult(res *allocation.BookResult) *BookSlotResponse {
	resp := &BookSlotResponse{
		Status: string(res.Status),
		Reason: string(res.Reason),
	}
	if res.Booking != nil {
		resp.Booking = models.FromDomainBooking(res.Booking, res.Booking.Status)
	}
	if res.WaitlistEntry != nil {
		entry := models.FromDomainWaitlistEntry(res.WaitlistEntry, res.WaitlistPosition)
		resp.WaitlistEntry = &entry
		resp.WaitlistPosition = res.WaitlistPosition
	}
	return resp
}

// StatusCode HTTP код для исхода бронирования
func StatusCode(status domain.AllocationStatus) int {
	switch status {
	case domain.AllocationReserved, domain.AllocationOverflowed:
		return http.StatusCreated
	case domain.AllocationWaitlisted:
		return http.StatusAccepted
	default:
		return http.StatusConflict
	}
}
