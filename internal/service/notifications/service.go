package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/notifications/models"
)

// Service сервис входящих уведомлений
type Service struct {
	notificationRepo NotificationRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(notificationRepo NotificationRepository, logger Logger) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List получает уведомления пользователя, сначала новые
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.NotificationListResponse, error) {
	s.logger.Info("ListNotifications: user=%d requested by %d, unread_only=%t", req.UserID, req.RequesterID, req.UnreadOnly)

	if !req.IsAdmin && req.RequesterID != req.UserID {
		s.logger.Warn("ListNotifications: access denied for user=%d", req.RequesterID)
		return nil, ErrAccessDenied
	}

	limit := req.Limit
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	if limit > models.MaxLimit {
		limit = models.MaxLimit
	}

	list, err := s.notificationRepo.ListByUser(ctx, req.UserID, req.UnreadOnly, limit)
	if err != nil {
		s.logger.Error("ListNotifications: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListNotifications - repository error: %w", ErrInternal, err)
	}

	resp := &models.NotificationListResponse{Notifications: make([]models.NotificationResponse, 0, len(list))}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, models.FromDomainNotification(n))
		if !n.Read {
			resp.Unread++
		}
	}
	return resp, nil
}

// MarkRead отмечает уведомление прочитанным; только получатель может это сделать
func (s *Service) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if err := s.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("MarkRead: notification id=%d not found for user=%d", notificationID, userID)
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error: %v", err)
		return fmt.Errorf("%w: MarkRead - repository error: %w", ErrInternal, err)
	}
	return nil
}
