package slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrSubServiceNotFound возвращается, когда направление не найдено
	ErrSubServiceNotFound = fmt.Errorf("sub-service %w", domain.ErrNotFound)

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slot %w", domain.ErrNotFound)

	// ErrSlotExists возвращается при попытке создать существующий слот
	ErrSlotExists = fmt.Errorf("slots: %w", domain.ErrSlotExists)

	// ErrSlotHasBookings возвращается при удалении или уменьшении занятого слота
	ErrSlotHasBookings = fmt.Errorf("slots: %w", domain.ErrSlotHasBookings)

	// ErrAccessDenied возвращается, когда пользователь не администратор услуги
	ErrAccessDenied = fmt.Errorf("slots: %w", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("slots: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
