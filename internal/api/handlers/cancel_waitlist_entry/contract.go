package cancel_waitlist_entry

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

type AllocationEngine interface {
	CancelWait(ctx context.Context, entryID int64, actor allocation.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
