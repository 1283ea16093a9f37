package emergency_booking

import (
	"context"

	emergencyBooking "github.com/m04kA/EffiQ-BookingService/internal/usecase/emergency_booking"
)

type EmergencyBookingUseCase interface {
	Execute(ctx context.Context, req *emergencyBooking.Request) (*emergencyBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
