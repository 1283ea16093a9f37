package cancel_booking

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

type AllocationEngine interface {
	CancelBooking(ctx context.Context, bookingID int64, actor allocation.Actor) (*allocation.CancelResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
