package notifier

import (
	"context"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// InboxDispatcher сохраняет уведомление во входящие пользователя
// и, если настроен publisher, отправляет его в реальном времени.
type InboxDispatcher struct {
	repo      NotificationRepository
	publisher Publisher
	logger    Logger
}

// NewInboxDispatcher создает диспетчер; publisher может быть nil
func NewInboxDispatcher(repo NotificationRepository, publisher Publisher, logger Logger) *InboxDispatcher {
	return &InboxDispatcher{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Notify доставляет уведомление. Ошибка публикации не считается ошибкой доставки:
// уведомление уже лежит во входящих.
func (d *InboxDispatcher) Notify(ctx context.Context, userID int64, message string, nctx domain.NotificationContext) error {
	if nctx.Type == "" {
		nctx.Type = domain.NotificationSlotAvailable
	}

	created, err := d.repo.Create(ctx, domain.Notification{
		UserID:  userID,
		Type:    nctx.Type,
		Message: message,
		Context: nctx,
	})
	if err != nil {
		d.logger.Error("Notify: failed to store notification for user=%d: %v", userID, err)
		return fmt.Errorf("%w: store notification: %w", ErrInternal, err)
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, FromDomainNotification(created)); err != nil {
			d.logger.Warn("Notify: failed to publish notification id=%d: %v", created.ID, err)
		}
	}

	d.logger.Info("Notify: notification id=%d delivered to user=%d", created.ID, userID)
	return nil
}
