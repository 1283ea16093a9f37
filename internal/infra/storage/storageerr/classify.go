package storageerr

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// Коды ошибок PostgreSQL
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeQueryCanceled        = "57014"
)

// Classify сопоставляет ошибку драйвера с видом ошибки предметной области:
//   - истёкший контекст или отмена запроса по таймауту -> domain.ErrStorageTimeout
//   - serialization failure / deadlock -> domain.ErrConflict
//
// Остальные ошибки возвращаются без изменений.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrStorageTimeout, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		case codeQueryCanceled:
			return fmt.Errorf("%w: %w", domain.ErrStorageTimeout, err)
		}
	}

	return err
}

// IsUniqueViolation проверяет нарушение уникального ограничения
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}
