package allocation

import (
	"context"
	"errors"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

// errSkipCandidate внутренний сигнал: у пользователя уже есть бронирование на этот слот
var errSkipCandidate = errors.New("allocation: skip candidate")

// BookSlot бронирует место: Requested -> Reserved | Overflowed | Waitlisted | Rejected.
//
// Запрошенный слот пробуется первым, затем более поздние слоты той же даты
// в порядке времени суток. Каждый кандидат пробуется в своей транзакции
// {reserve; debit; create; удаление собственной записи из очереди}, поэтому
// списание и бронирование либо происходят вместе, либо не происходят вовсе.
// Отказ (Rejected) не имеет побочных эффектов.
func (e *Engine) BookSlot(ctx context.Context, req BookRequest) (*BookResult, error) {
	label, err := types.NewTimeLabel(req.Time.String())
	if err != nil || req.UserID <= 0 || req.SubServiceID <= 0 || req.Date.IsZero() {
		e.logger.Warn("BookSlot: invalid request user=%d sub_service=%d time=%q", req.UserID, req.SubServiceID, req.Time)
		return nil, ErrInvalidInput
	}
	date := domain.DateOnly(req.Date)

	e.logger.Info("BookSlot: user=%d, sub_service=%d, date=%s, time=%s",
		req.UserID, req.SubServiceID, date.Format(domain.DateFormat), label)

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	sub, err := e.catalog.GetSubService(ctx, req.SubServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("BookSlot: sub-service id=%d not found", req.SubServiceID)
			return nil, ErrSubServiceNotFound
		}
		e.logger.Error("BookSlot: failed to get sub-service id=%d: %v", req.SubServiceID, err)
		return nil, e.internal("get sub-service", err)
	}
	if req.ServiceID != 0 && req.ServiceID != sub.ServiceID {
		e.logger.Warn("BookSlot: sub-service id=%d does not belong to service id=%d", sub.ID, req.ServiceID)
		return nil, ErrInvalidInput
	}

	desired := domain.SlotKey{SubServiceID: sub.ID, Date: date, Time: label}

	if _, err := e.slots.Get(ctx, desired); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("BookSlot: slot %s %s not found for sub-service id=%d", date.Format(domain.DateFormat), label, sub.ID)
			return nil, ErrSlotNotFound
		}
		e.logger.Error("BookSlot: failed to get slot: %v", err)
		return nil, e.internal("get slot", err)
	}

	duplicate, err := e.bookings.ExistsConfirmed(ctx, req.UserID, desired)
	if err != nil {
		e.logger.Error("BookSlot: duplicate check failed: %v", err)
		return nil, e.internal("duplicate check", err)
	}
	if duplicate {
		e.logger.Warn("BookSlot: user=%d already holds slot %s %s", req.UserID, date.Format(domain.DateFormat), label)
		return e.rejected(domain.RejectDuplicateBooking), nil
	}

	// Предварительная проверка баланса; окончательно её подтверждает условное списание
	account, err := e.accounts.Ensure(ctx, req.UserID)
	if err != nil {
		e.logger.Error("BookSlot: failed to load account user=%d: %v", req.UserID, err)
		return nil, e.internal("load account", err)
	}
	if !account.CanAfford(sub.TokenFee) {
		e.logger.Warn("BookSlot: insufficient balance user=%d balance=%d fee=%d", req.UserID, account.Balance, sub.TokenFee)
		return e.rejected(domain.RejectInsufficientBalance), nil
	}

	candidates, err := e.candidates(ctx, desired)
	if err != nil {
		e.logger.Error("BookSlot: failed to list slots: %v", err)
		return nil, e.internal("list slots", err)
	}

	for _, slotTime := range candidates {
		key := domain.SlotKey{SubServiceID: sub.ID, Date: date, Time: slotTime}

		booking, err := e.tryReserve(ctx, req.UserID, sub, desired, key)
		switch {
		case err == nil:
			status := domain.AllocationReserved
			if slotTime != label {
				status = domain.AllocationOverflowed
			}
			e.metrics.RecordAllocation(string(status))
			e.logger.Info("BookSlot: %s booking id=%d user=%d time=%s (requested %s)",
				status, booking.ID, req.UserID, slotTime, label)
			return &BookResult{Status: status, Booking: booking}, nil

		case errors.Is(err, domain.ErrSlotFull), errors.Is(err, errSkipCandidate):
			continue

		case errors.Is(err, domain.ErrNotFound) && slotTime != label:
			// Слот удалили между чтением списка и резервированием
			continue

		case errors.Is(err, domain.ErrNotFound):
			e.logger.Warn("BookSlot: slot disappeared during booking: %v", err)
			return nil, ErrSlotNotFound

		case errors.Is(err, domain.ErrInsufficientBalance):
			e.logger.Warn("BookSlot: balance changed concurrently user=%d", req.UserID)
			return e.rejected(domain.RejectInsufficientBalance), nil

		default:
			e.logger.Error("BookSlot: reserve %s failed: %v", slotTime, err)
			return nil, e.internal("reserve", err)
		}
	}

	entry, err := e.waitlist.Enqueue(ctx, domain.WaitlistEntry{
		UserID:       req.UserID,
		ServiceID:    sub.ServiceID,
		SubServiceID: sub.ID,
		Date:         date,
		DesiredTime:  label,
	})
	if err != nil {
		e.logger.Error("BookSlot: failed to enqueue user=%d: %v", req.UserID, err)
		return nil, e.internal("enqueue", err)
	}

	position, err := e.waitlist.Position(ctx, entry)
	if err != nil {
		e.logger.Error("BookSlot: failed to get waitlist position entry id=%d: %v", entry.ID, err)
		return nil, e.internal("waitlist position", err)
	}

	e.metrics.RecordAllocation(string(domain.AllocationWaitlisted))
	e.logger.Info("BookSlot: user=%d waitlisted, entry id=%d position=%d", req.UserID, entry.ID, position)

	return &BookResult{
		Status:           domain.AllocationWaitlisted,
		WaitlistEntry:    entry,
		WaitlistPosition: position,
	}, nil
}

// candidates запрошенное время и все более поздние слоты той же даты по возрастанию времени суток
func (e *Engine) candidates(ctx context.Context, desired domain.SlotKey) ([]types.TimeLabel, error) {
	slots, err := e.slots.ListByDate(ctx, desired.SubServiceID, desired.Date)
	if err != nil {
		return nil, err
	}

	sorted := domain.SortSlots(slots)
	labels := make([]types.TimeLabel, len(sorted))
	for i, s := range sorted {
		labels[i] = s.Time
	}

	return append([]types.TimeLabel{desired.Time}, types.LaterThan(labels, desired.Time)...), nil
}

// tryReserve одна попытка забронировать конкретный слот в транзакции
func (e *Engine) tryReserve(ctx context.Context, userID int64, sub *domain.SubService, desired, key domain.SlotKey) (*domain.Booking, error) {
	var booking *domain.Booking

	err := e.withRetry(ctx, "BookSlot", func() error {
		return e.txManager.Do(ctx, func(txCtx context.Context) error {
			if key != desired {
				held, err := e.bookings.ExistsConfirmed(txCtx, userID, key)
				if err != nil {
					return err
				}
				if held {
					return errSkipCandidate
				}
			}

			if _, err := e.slots.Reserve(txCtx, key); err != nil {
				return err
			}

			if sub.TokenFee > 0 {
				if _, err := e.accounts.Debit(txCtx, userID, sub.TokenFee); err != nil {
					return err
				}
			}

			created, err := e.bookings.Create(txCtx, domain.BookingDraft{
				UserID:           userID,
				ServiceID:        sub.ServiceID,
				SubServiceID:     sub.ID,
				Date:             key.Date,
				Time:             key.Time,
				OriginalTimeSlot: desired.Time,
				WasRescheduled:   key.Time != desired.Time,
				TokenFee:         sub.TokenFee,
			})
			if err != nil {
				return err
			}

			waitKey := domain.WaitlistKey{SubServiceID: desired.SubServiceID, Date: desired.Date, DesiredTime: desired.Time}
			if _, err := e.waitlist.RemoveForUser(txCtx, userID, waitKey); err != nil {
				return err
			}

			booking = created
			return nil
		})
	})

	return booking, err
}

func (e *Engine) rejected(reason domain.RejectReason) *BookResult {
	e.metrics.RecordAllocation(string(domain.AllocationRejected))
	return &BookResult{Status: domain.AllocationRejected, Reason: reason}
}
