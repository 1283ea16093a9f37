package notifier

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// Event событие, которое получает клиент по websocket
type Event struct {
	ID        int64                      `json:"id"`
	UserID    int64                      `json:"userId"`
	Type      string                     `json:"type"`
	Message   string                     `json:"message"`
	Context   domain.NotificationContext `json:"context"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// DeliverPayload полезная нагрузка задачи доставки уведомления
type DeliverPayload struct {
	UserID  int64                      `json:"userId"`
	Message string                     `json:"message"`
	Context domain.NotificationContext `json:"context"`
}

// FromDomainNotification конвертирует сохранённое уведомление в событие
func FromDomainNotification(n *domain.Notification) Event {
	return Event{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Message:   n.Message,
		Context:   n.Context,
		CreatedAt: n.CreatedAt,
	}
}
