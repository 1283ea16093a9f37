package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("booking.repository: booking %w", domain.ErrNotFound)

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = fmt.Errorf("booking.repository: %w", domain.ErrAlreadyCancelled)

	// ErrNotConfirmed возвращается при переносе неподтверждённого бронирования
	ErrNotConfirmed = fmt.Errorf("booking.repository: %w", domain.ErrNotConfirmed)

	// ErrVersionConflict возвращается, когда бронирование изменили параллельно
	ErrVersionConflict = fmt.Errorf("booking.repository: booking version mismatch: %w", domain.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
