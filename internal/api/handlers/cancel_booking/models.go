package cancel_booking

import (
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
)

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Status   string                  `json:"status"`
	Booking  *models.BookingResponse `json:"booking,omitempty"`
	Notified int                     `json:"notified"` // уведомлено из листа ожидания
}

// FromCancelResult конвертирует результат движка в HTTP ответ
func FromCancelResult(res *allocation.CancelResult) *CancelBookingResponse {
	resp := &CancelBookingResponse{
		Status:   string(res.Status),
		Notified: res.Notified,
	}
	if res.Booking != nil {
		resp.Booking = models.FromDomainBooking(res.Booking, res.Booking.Status)
	}
	return resp
}
