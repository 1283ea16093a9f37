package reschedule_booking

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

type AllocationEngine interface {
	RescheduleBooking(ctx context.Context, req allocation.RescheduleRequest) (*allocation.RescheduleResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
