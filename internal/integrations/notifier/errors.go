package notifier

import "errors"

var (
	// ErrInvalidPayload возвращается при некорректной полезной нагрузке задачи
	ErrInvalidPayload = errors.New("notifier: invalid payload")

	// ErrInternal возвращается при внутренних ошибках доставки
	ErrInternal = errors.New("notifier: internal error")
)
