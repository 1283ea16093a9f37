package account

import (
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	// ErrAccountNotFound возвращается, когда счёт пользователя не найден
	ErrAccountNotFound = fmt.Errorf("account.repository: account %w", domain.ErrNotFound)

	// ErrInsufficientBalance возвращается, когда баланса не хватает для списания
	ErrInsufficientBalance = fmt.Errorf("account.repository: %w", domain.ErrInsufficientBalance)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("account.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("account.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("account.repository: failed to scan row")
)
