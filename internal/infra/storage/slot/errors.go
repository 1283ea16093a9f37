package slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slot.repository: slot %w", domain.ErrNotFound)

	// ErrSlotFull возвращается, когда в слоте нет свободных мест
	ErrSlotFull = fmt.Errorf("slot.repository: %w", domain.ErrSlotFull)

	// ErrSlotExists возвращается при попытке создать существующий слот
	ErrSlotExists = fmt.Errorf("slot.repository: %w", domain.ErrSlotExists)

	// ErrSlotHasBookings возвращается при удалении или уменьшении слота с бронированиями
	ErrSlotHasBookings = fmt.Errorf("slot.repository: %w", domain.ErrSlotHasBookings)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
