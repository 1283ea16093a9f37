package domain

import "errors"

// Общие виды ошибок предметной области.
// Репозитории и сервисы оборачивают их через fmt.Errorf("%w: ...").
var (
	// ErrNotFound сущность (услуга, слот, бронирование, запись в очереди) не найдена
	ErrNotFound = errors.New("not found")

	// ErrSlotFull в слоте нет свободных мест. Используется только внутри движка распределения.
	ErrSlotFull = errors.New("slot is full")

	// ErrSlotExists слот с таким ключом уже существует
	ErrSlotExists = errors.New("slot already exists")

	// ErrSlotHasBookings слот нельзя удалить или уменьшить, пока на нём есть бронирования
	ErrSlotHasBookings = errors.New("slot has bookings")

	// ErrInsufficientBalance на балансе пользователя недостаточно токенов
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrConflict конкурентное изменение обнаружено хранилищем
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrStorageTimeout хранилище не ответило за отведённое время
	ErrStorageTimeout = errors.New("storage timeout")

	// ErrAlreadyCancelled бронирование уже отменено
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrNotConfirmed операция допустима только для подтверждённого бронирования
	ErrNotConfirmed = errors.New("booking is not confirmed")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccessDenied у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")
)

// IsRetryable возвращает true для ошибок, после которых операцию имеет смысл повторить
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
