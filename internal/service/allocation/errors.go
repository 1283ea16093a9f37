package allocation

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("allocation: %w", domain.ErrInvalidInput)

	// ErrSubServiceNotFound возвращается, когда направление не найдено
	ErrSubServiceNotFound = fmt.Errorf("allocation: sub-service %w", domain.ErrNotFound)

	// ErrSlotNotFound возвращается, когда запрошенного слота не существует
	ErrSlotNotFound = fmt.Errorf("allocation: slot %w", domain.ErrNotFound)

	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	ErrEntryNotFound = fmt.Errorf("allocation: waitlist entry %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не владелец и не администратор
	ErrAccessDenied = fmt.Errorf("allocation: %w", domain.ErrAccessDenied)

	// ErrNotConfirmed возвращается при переносе неподтверждённого бронирования
	ErrNotConfirmed = fmt.Errorf("allocation: %w", domain.ErrNotConfirmed)

	// ErrInternal возвращается при внутренних ошибках (хранилище, таймауты, исчерпанные повторы)
	ErrInternal = errors.New("allocation: internal error")
)
