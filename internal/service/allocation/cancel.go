package allocation

import (
	"context"
	"errors"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

// CancelBooking отменяет бронирование, освобождает слот, возвращает токены
// и уведомляет первых пользователей из очереди на освободившийся слот.
// Повторная отмена возвращает CancelAlreadyCancelled без побочных эффектов.
func (e *Engine) CancelBooking(ctx context.Context, bookingID int64, actor Actor) (*CancelResult, error) {
	e.logger.Info("CancelBooking: booking_id=%d, actor=%d", bookingID, actor.UserID)

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("CancelBooking: booking id=%d not found", bookingID)
			return &CancelResult{Status: domain.CancelNotFound}, nil
		}
		e.logger.Error("CancelBooking: failed to get booking id=%d: %v", bookingID, err)
		return nil, e.internal("get booking", err)
	}

	if err := e.authorize(ctx, actor, booking.UserID, booking.ServiceID); err != nil {
		if errors.Is(err, ErrAccessDenied) {
			e.logger.Warn("CancelBooking: actor=%d is not allowed to cancel booking id=%d", actor.UserID, bookingID)
		}
		return nil, err
	}

	if booking.IsCancelled() {
		e.logger.Info("CancelBooking: booking id=%d already cancelled", bookingID)
		return &CancelResult{Status: domain.CancelAlreadyCancelled, Booking: booking}, nil
	}

	var cancelled *domain.Booking
	err = e.withRetry(ctx, "CancelBooking", func() error {
		return e.txManager.Do(ctx, func(txCtx context.Context) error {
			b, err := e.bookings.Cancel(txCtx, bookingID, actor.UserID, e.timeProvider.Now())
			if err != nil {
				if errors.Is(err, domain.ErrAlreadyCancelled) {
					cancelled = b
				}
				return err
			}

			if b.HasSlot() {
				if _, err := e.slots.Release(txCtx, b.SlotKey()); err != nil && !errors.Is(err, domain.ErrNotFound) {
					return err
				}
			}

			if b.TokenFee > 0 {
				if err := e.refund(txCtx, b.UserID, b.TokenFee); err != nil {
					return err
				}
			}

			cancelled = b
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCancelled) {
			// Параллельная отмена успела раньше
			e.logger.Info("CancelBooking: booking id=%d cancelled concurrently", bookingID)
			return &CancelResult{Status: domain.CancelAlreadyCancelled, Booking: cancelled}, nil
		}
		e.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", bookingID, err)
		return nil, e.internal("cancel", err)
	}

	e.logger.Info("CancelBooking: booking id=%d cancelled, refunded=%d", bookingID, cancelled.TokenFee)

	result := &CancelResult{Status: domain.CancelOk, Booking: cancelled}
	if cancelled.HasSlot() {
		result.Notified = e.promote(ctx, cancelled.SlotKey(), false)
	}
	return result, nil
}

// refund возвращает токены, создавая счёт, если его ещё нет
func (e *Engine) refund(ctx context.Context, userID, amount int64) error {
	_, err := e.accounts.Credit(ctx, userID, amount)
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := e.accounts.Ensure(ctx, userID); err != nil {
		return err
	}
	_, err = e.accounts.Credit(ctx, userID, amount)
	return err
}
