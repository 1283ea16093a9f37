package emergency_booking

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	emergencyBooking "github.com/m04kA/EffiQ-BookingService/internal/usecase/emergency_booking"
)

// EmergencyBookingRequest HTTP request model
type EmergencyBookingRequest struct {
	SubServiceID int64   `json:"subServiceId"`
	BookingFor   string  `json:"bookingFor,omitempty"` // "self" (по умолчанию) или "other"
	Details      *string `json:"details,omitempty"`
}

// EmergencyBookingResponse HTTP response model
type EmergencyBookingResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	ServiceID       int64     `json:"serviceId"`
	SubServiceID    int64     `json:"subServiceId"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	TokenFee        int64     `json:"tokenFee"`
	Status          string    `json:"status"`
	ReferenceNumber string    `json:"referenceNumber"`
	BookingFor      string    `json:"bookingFor"`
	Details         *string   `json:"details,omitempty"`
	Balance         int64     `json:"balance"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *EmergencyBookingRequest) ToUseCaseRequest(userID int64) *emergencyBooking.Request {
	return &emergencyBooking.Request{
		UserID:       userID,
		SubServiceID: r.SubServiceID,
		BookingFor:   r.BookingFor,
		Details:      r.Details,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *emergencyBooking.Response) *EmergencyBookingResponse {
	return &EmergencyBookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		ServiceID:       resp.ServiceID,
		SubServiceID:    resp.SubServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.Time.String(),
		TokenFee:        resp.TokenFee,
		Status:          resp.Status,
		ReferenceNumber: resp.ReferenceNumber,
		BookingFor:      resp.BookingFor,
		Details:         resp.Details,
		Balance:         resp.Balance,
		CreatedAt:       resp.CreatedAt,
	}
}
