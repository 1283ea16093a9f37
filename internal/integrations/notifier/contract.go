package notifier

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// NotificationRepository интерфейс репозитория входящих уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (*domain.Notification, error)
}

// Publisher публикует событие пользователю в реальном времени
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// TaskEnqueuer ставит задачу в очередь (реализуется *asynq.Client)
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Sweeper повторно уведомляет лист ожидания о свободных слотах
type Sweeper interface {
	SweepWaitlist(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
