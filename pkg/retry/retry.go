package retry

import (
	"context"
	"time"
)

// Policy параметры повторов
type Policy struct {
	Retries   int           // количество повторов после первой попытки
	BaseDelay time.Duration // задержка перед первым повтором, далее удваивается
}

// Do выполняет fn и повторяет её, пока retryable(err) == true и не исчерпаны повторы.
// onRetry вызывается перед каждым повтором (может быть nil).
func Do(ctx context.Context, p Policy, retryable func(error) bool, onRetry func(attempt int, err error), fn func() error) error {
	delay := p.BaseDelay

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || attempt >= p.Retries || !retryable(err) {
			return err
		}

		if onRetry != nil {
			onRetry(attempt+1, err)
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
			delay *= 2
		}
	}
}
