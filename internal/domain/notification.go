package domain

import "time"

// NotificationType тип уведомления
type NotificationType string

const (
	NotificationSlotAvailable NotificationType = "slot_available"
)

// NotificationContext контекст уведомления (к какому слоту оно относится)
type NotificationContext struct {
	Type         NotificationType `json:"type"`
	ServiceID    int64            `json:"serviceId"`
	ServiceName  string           `json:"serviceName,omitempty"`
	SubServiceID int64            `json:"subServiceId"`
	Date         string           `json:"date"`
	Time         string           `json:"time"`
}

// Notification уведомление во "входящих" пользователя
type Notification struct {
	ID        int64
	UserID    int64
	Type      NotificationType
	Message   string
	Context   NotificationContext
	Read      bool
	CreatedAt time.Time
}
