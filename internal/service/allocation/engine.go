package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/pkg/retry"
)

// Engine движок распределения мест (AllocationEngine).
// Единственный компонент, который в одной логической операции меняет и слоты, и бронирования.
// Корректность при конкурентных вызовах обеспечивается атомарными reserve/release хранилища
// и порядком reserve-before-release при переносе; глобальных блокировок нет.
type Engine struct {
	slots        SlotStore
	bookings     BookingLedger
	waitlist     WaitlistQueue
	accounts     AccountStore
	catalog      Catalog
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	cfg          Config
	logger       Logger
}

// NewEngine создает новый экземпляр движка
func NewEngine(
	slots SlotStore,
	bookings BookingLedger,
	waitlist WaitlistQueue,
	accounts AccountStore,
	catalog Catalog,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *Engine {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if cfg.PromoteBatch <= 0 {
		cfg.PromoteBatch = domain.DefaultPromoteBatch
	}

	return &Engine{
		slots:        slots,
		bookings:     bookings,
		waitlist:     waitlist,
		accounts:     accounts,
		catalog:      catalog,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		cfg:          cfg,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (e *Engine) WithTimeProvider(tp TimeProvider) *Engine {
	e.timeProvider = tp
	return e
}

// withTimeout ограничивает операцию таймаутом хранилища
func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.StorageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.StorageTimeout)
}

// withRetry повторяет fn при domain.ErrConflict с экспоненциальной задержкой
func (e *Engine) withRetry(ctx context.Context, operation string, fn func() error) error {
	policy := retry.Policy{Retries: e.cfg.ConflictRetries, BaseDelay: e.cfg.RetryBaseDelay}

	return retry.Do(ctx, policy, domain.IsRetryable, func(attempt int, err error) {
		e.metrics.RecordConflictRetry(operation)
		e.logger.Warn("%s: conflict, retry %d/%d: %v", operation, attempt, policy.Retries, err)
	}, fn)
}

// authorize пропускает владельца бронирования, глобального администратора и администратора услуги
func (e *Engine) authorize(ctx context.Context, actor Actor, ownerID, serviceID int64) error {
	if actor.Admin || actor.UserID == ownerID {
		return nil
	}

	service, err := e.catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAccessDenied
		}
		return e.internal("authorize - get service", err)
	}

	if !service.IsAdmin(actor.UserID) {
		return ErrAccessDenied
	}
	return nil
}

// internal оборачивает инфраструктурную ошибку, сохраняя её вид (таймаут, конфликт)
func (e *Engine) internal(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, step, err)
}

type nopMetrics struct{}

func (nopMetrics) RecordAllocation(string)          {}
func (nopMetrics) RecordWaitlistNotification(error) {}
func (nopMetrics) RecordConflictRetry(string)       {}
