package get_queue_position

import (
	"context"

	queuePosition "github.com/m04kA/EffiQ-BookingService/internal/usecase/queue_position"
)

type QueuePositionUseCase interface {
	Execute(ctx context.Context, req *queuePosition.Request) (*queuePosition.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
