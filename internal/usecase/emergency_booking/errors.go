package emergency_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrSubServiceNotFound возвращается, когда направление не найдено
	ErrSubServiceNotFound = fmt.Errorf("emergency_booking: sub-service %w", domain.ErrNotFound)

	// ErrInsufficientBalance возвращается, когда на балансе не хватает токенов на экстренную запись
	ErrInsufficientBalance = fmt.Errorf("emergency_booking: %w", domain.ErrInsufficientBalance)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("emergency_booking: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("emergency_booking: internal error")
)
