package book_slot

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

type AllocationEngine interface {
	BookSlot(ctx context.Context, req allocation.BookRequest) (*allocation.BookResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
