package get_available_dates

import (
	"context"

	getAvailableSlots "github.com/m04kA/EffiQ-BookingService/internal/usecase/get_available_slots"
)

type GetAvailableDatesUseCase interface {
	ExecuteDates(ctx context.Context, req *getAvailableSlots.DatesRequest) (*getAvailableSlots.DatesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
