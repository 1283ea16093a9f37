package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrSubServiceNotFound возвращается, когда направление не найдено
	ErrSubServiceNotFound = fmt.Errorf("sub-service %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
