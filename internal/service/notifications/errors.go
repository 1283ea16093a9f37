package notifications

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrNotificationNotFound возвращается, когда уведомление не найдено
	ErrNotificationNotFound = fmt.Errorf("notification %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("notifications: %w", domain.ErrAccessDenied)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
