package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("service %w", domain.ErrNotFound)

	// ErrSubServiceNotFound возвращается, когда направление не найдено
	ErrSubServiceNotFound = fmt.Errorf("sub-service %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("catalog: %w", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("catalog: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
