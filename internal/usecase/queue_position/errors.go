package queue_position

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("queue_position: booking %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не владелец и не администратор
	ErrAccessDenied = fmt.Errorf("queue_position: %w", domain.ErrAccessDenied)

	// ErrNotConfirmed возвращается для отменённого бронирования
	ErrNotConfirmed = fmt.Errorf("queue_position: %w", domain.ErrNotConfirmed)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("queue_position: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("queue_position: internal error")
)
