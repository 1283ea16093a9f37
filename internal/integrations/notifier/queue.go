package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// Типы фоновых задач
const (
	TypeDeliverNotification = "notification:deliver"
	TypeWaitlistSweep       = "waitlist:sweep"
)

// QueueConfig параметры постановки задач
type QueueConfig struct {
	Queue    string
	MaxRetry int
	Timeout  time.Duration
}

// QueueDispatcher ставит доставку уведомления в фоновую очередь.
// Сама доставка выполняется воркером через DeliveryHandler.
type QueueDispatcher struct {
	enqueuer TaskEnqueuer
	cfg      QueueConfig
	logger   Logger
}

// NewQueueDispatcher создает диспетчер фоновой доставки
func NewQueueDispatcher(enqueuer TaskEnqueuer, cfg QueueConfig, logger Logger) *QueueDispatcher {
	if cfg.Queue == "" {
		cfg.Queue = "default"
	}
	return &QueueDispatcher{
		enqueuer: enqueuer,
		cfg:      cfg,
		logger:   logger,
	}
}

// NewDeliverTask создает задачу доставки уведомления
func NewDeliverTask(payload DeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", ErrInternal, err)
	}
	return asynq.NewTask(TypeDeliverNotification, data), nil
}

// Notify ставит задачу доставки в очередь
func (d *QueueDispatcher) Notify(ctx context.Context, userID int64, message string, nctx domain.NotificationContext) error {
	task, err := NewDeliverTask(DeliverPayload{UserID: userID, Message: message, Context: nctx})
	if err != nil {
		return err
	}

	opts := []asynq.Option{asynq.Queue(d.cfg.Queue)}
	if d.cfg.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(d.cfg.MaxRetry))
	}
	if d.cfg.Timeout > 0 {
		opts = append(opts, asynq.Timeout(d.cfg.Timeout))
	}

	info, err := d.enqueuer.EnqueueContext(ctx, task, opts...)
	if err != nil {
		d.logger.Error("Notify: failed to enqueue notification for user=%d: %v", userID, err)
		return fmt.Errorf("%w: enqueue: %w", ErrInternal, err)
	}

	d.logger.Info("Notify: enqueued task id=%s for user=%d", info.ID, userID)
	return nil
}
