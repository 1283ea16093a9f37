package list_notifications

import (
	"context"

	"github.com/m04kA/EffiQ-BookingService/internal/service/notifications/models"
)

type NotificationService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.NotificationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
