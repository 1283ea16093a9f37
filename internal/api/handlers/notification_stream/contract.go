package notification_stream

import (
	"context"
)

// Subscriber подписка на события пользователя (redis pub/sub)
type Subscriber interface {
	Subscribe(ctx context.Context, userID int64) (<-chan []byte, func() error, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
