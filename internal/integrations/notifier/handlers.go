package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// Delivery доставляет уведомление получателю (InboxDispatcher)
type Delivery interface {
	Notify(ctx context.Context, userID int64, message string, nctx domain.NotificationContext) error
}

// NewDeliveryHandler обработчик задачи notification:deliver
func NewDeliveryHandler(delivery Delivery, logger Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p DeliverPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("DeliveryHandler: invalid payload: %v", err)
			return fmt.Errorf("%w: %v: %w", ErrInvalidPayload, err, asynq.SkipRetry)
		}
		if p.UserID <= 0 {
			logger.Error("DeliveryHandler: payload without user id")
			return fmt.Errorf("%w: userId is required: %w", ErrInvalidPayload, asynq.SkipRetry)
		}

		return delivery.Notify(ctx, p.UserID, p.Message, p.Context)
	}
}

// NewSweepHandler обработчик периодической задачи waitlist:sweep
func NewSweepHandler(sweeper Sweeper, logger Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		notified, err := sweeper.SweepWaitlist(ctx)
		if err != nil {
			logger.Error("SweepHandler: sweep failed: %v", err)
			return err
		}
		logger.Info("SweepHandler: notified %d waitlisted users", notified)
		return nil
	}
}
