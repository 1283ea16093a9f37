package get_waitlist_entry

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

type AllocationEngine interface {
	GetWaitlistStatus(ctx context.Context, entryID int64, actor allocation.Actor) (*allocation.WaitlistStatus, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
