package allocation

import (
	"context"
	"errors"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// errSlotGone новый слот удалён между проверкой и резервированием
var errSlotGone = errors.New("allocation: target slot gone")

// RescheduleBooking переносит подтверждённое бронирование на другой слот того же направления.
// Новый слот резервируется строго до освобождения старого: при нехватке мест
// бронирование остаётся на старом слоте.
func (e *Engine) RescheduleBooking(ctx context.Context, req RescheduleRequest) (*RescheduleResult, error) {
	label, err := types.NewTimeLabel(req.NewTime.String())
	if err != nil || req.NewDate.IsZero() {
		e.logger.Warn("RescheduleBooking: invalid target date/time %q for booking id=%d", req.NewTime, req.BookingID)
		return nil, ErrInvalidInput
	}
	newDate := domain.DateOnly(req.NewDate)

	e.logger.Info("RescheduleBooking: booking_id=%d, actor=%d, new=%s %s",
		req.BookingID, req.Actor.UserID, newDate.Format(domain.DateFormat), label)

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	booking, err := e.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
			return &RescheduleResult{Status: domain.RescheduleNotFound}, nil
		}
		e.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, e.internal("get booking", err)
	}

	if err := e.authorize(ctx, req.Actor, booking.UserID, booking.ServiceID); err != nil {
		if errors.Is(err, ErrAccessDenied) {
			e.logger.Warn("RescheduleBooking: actor=%d is not allowed to reschedule booking id=%d", req.Actor.UserID, req.BookingID)
		}
		return nil, err
	}

	if booking.Status != domain.StatusConfirmed {
		e.logger.Warn("RescheduleBooking: booking id=%d has status %s", req.BookingID, booking.Status)
		return nil, ErrNotConfirmed
	}
	if !booking.HasSlot() {
		e.logger.Warn("RescheduleBooking: emergency booking id=%d has no slot", req.BookingID)
		return nil, ErrInvalidInput
	}

	target := domain.SlotKey{SubServiceID: booking.SubServiceID, Date: newDate, Time: label}
	if target == booking.SlotKey() {
		return &RescheduleResult{Status: domain.RescheduleOk, Booking: booking}, nil
	}

	if _, err := e.slots.Get(ctx, target); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("RescheduleBooking: target slot %s %s not found", newDate.Format(domain.DateFormat), label)
			return nil, ErrSlotNotFound
		}
		e.logger.Error("RescheduleBooking: failed to get target slot: %v", err)
		return nil, e.internal("get target slot", err)
	}

	var (
		rescheduled *domain.Booking
		oldKey      domain.SlotKey
	)
	err = e.withRetry(ctx, "RescheduleBooking", func() error {
		current, err := e.bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if current.Status != domain.StatusConfirmed {
			return domain.ErrNotConfirmed
		}
		oldKey = current.SlotKey()

		return e.txManager.Do(ctx, func(txCtx context.Context) error {
			if _, err := e.slots.Reserve(txCtx, target); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return errSlotGone
				}
				return err
			}

			b, err := e.bookings.Reschedule(txCtx, current.ID, target, req.Actor.UserID, current.Version, e.timeProvider.Now())
			if err != nil {
				return err
			}

			if _, err := e.slots.Release(txCtx, oldKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}

			rescheduled = b
			return nil
		})
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSlotFull):
		e.logger.Warn("RescheduleBooking: target slot %s %s is full", newDate.Format(domain.DateFormat), label)
		return &RescheduleResult{Status: domain.RescheduleSlotFull, Booking: booking}, nil
	case errors.Is(err, errSlotGone):
		return nil, ErrSlotNotFound
	case errors.Is(err, domain.ErrNotConfirmed):
		return nil, ErrNotConfirmed
	case errors.Is(err, domain.ErrNotFound):
		return &RescheduleResult{Status: domain.RescheduleNotFound}, nil
	default:
		e.logger.Error("RescheduleBooking: failed to reschedule booking id=%d: %v", req.BookingID, err)
		return nil, e.internal("reschedule", err)
	}

	e.logger.Info("RescheduleBooking: booking id=%d moved to %s %s", req.BookingID, newDate.Format(domain.DateFormat), label)

	return &RescheduleResult{
		Status:   domain.RescheduleOk,
		Booking:  rescheduled,
		Notified: e.promote(ctx, oldKey, false),
	}, nil
}
