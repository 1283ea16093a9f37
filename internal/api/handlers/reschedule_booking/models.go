package reschedule_booking

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	Date string `json:"date"` // "2025-10-15"
	Time string `json:"time"` // "10:00 AM"
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	Status   string                  `json:"status"`
	Booking  *models.BookingResponse `json:"booking,omitempty"`
	Notified int                     `json:"notified"`
}

// ToEngineRequest конвертирует HTTP запрос в запрос движка
func (r *RescheduleBookingRequest) ToEngineRequest(bookingID int64, actor allocation.Actor) (allocation.RescheduleRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return allocation.RescheduleRequest{}, err
	}

	label, err := types.NewTimeLabel(r.Time)
	if err != nil {
		return allocation.RescheduleRequest{}, err
	}

	return allocation.RescheduleRequest{
		BookingID: bookingID,
		Actor:     actor,
		NewDate:   date,
		NewTime:   label,
	}, nil
}

// FromRescheduleResult конвертирует результат движка в HTTP ответ
func FromRescheduleResult(res *allocation.RescheduleResult) *RescheduleBookingResponse {
	resp := &RescheduleBookingResponse{
		Status:   string(res.Status),
		Notified: res.Notified,
	}
	if res.Booking != nil {
		resp.Booking = models.FromDomainBooking(res.Booking, res.Booking.Status)
	}
	return resp
}
