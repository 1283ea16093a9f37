package models

import (
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// DefaultLimit сколько уведомлений отдавать, если лимит не задан
const DefaultLimit = 50

// MaxLimit верхняя граница лимита
const MaxLimit = 200

// ListRequest запрос входящих уведомлений
type ListRequest struct {
	RequesterID int64
	IsAdmin     bool
	UserID      int64
	UnreadOnly  bool
	Limit       int
}

// NotificationResponse уведомление пользователя
type NotificationResponse struct {
	ID        int64                      `json:"id"`
	Type      string                     `json:"type"`
	Message   string                     `json:"message"`
	Context   domain.NotificationContext `json:"context"`
	Read      bool                       `json:"read"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// NotificationListResponse список уведомлений
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

// FromDomainNotification конвертирует доменную модель в ответ
func FromDomainNotification(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		Context:   n.Context,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
