package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

const slotAvailableMessage = "An earlier slot (%s on %s) is now available for your booking at %s!"

// PromoteFromWaitlist уведомляет до PromoteBatch самых старых пользователей очереди
// об освободившемся месте. Бронирование за них не создаётся: место достаётся тому,
// кто первым успеет вызвать BookSlot. Возвращает число успешных уведомлений.
func (e *Engine) PromoteFromWaitlist(ctx context.Context, key domain.SlotKey) (int, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	return e.promoteKey(ctx, key, false)
}

// promote то же, что PromoteFromWaitlist, но ошибки только логируются:
// отмена и перенос уже зафиксированы и не откатываются из-за очереди
func (e *Engine) promote(ctx context.Context, key domain.SlotKey, pendingOnly bool) int {
	notified, err := e.promoteKey(ctx, key, pendingOnly)
	if err != nil {
		e.logger.Error("Promote: sub_service=%d date=%s time=%s: %v",
			key.SubServiceID, key.Date.Format(domain.DateFormat), key.Time, err)
	}
	return notified
}

func (e *Engine) promoteKey(ctx context.Context, key domain.SlotKey, pendingOnly bool) (int, error) {
	wkey := domain.WaitlistKey{SubServiceID: key.SubServiceID, Date: domain.DateOnly(key.Date), DesiredTime: key.Time}

	entries, err := e.waitlist.PeekOldest(ctx, wkey, e.cfg.PromoteBatch, pendingOnly)
	if err != nil {
		return 0, e.internal("peek waitlist", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	serviceName := e.serviceName(ctx, entries[0].ServiceID)
	date := wkey.Date.Format(domain.DateFormat)
	message := fmt.Sprintf(slotAvailableMessage, key.Time, date, serviceName)

	notifiedIDs := make([]int64, 0, len(entries))
	for _, entry := range entries {
		err := e.notifier.Notify(ctx, entry.UserID, message, domain.NotificationContext{
			Type:         domain.NotificationSlotAvailable,
			ServiceID:    entry.ServiceID,
			ServiceName:  serviceName,
			SubServiceID: entry.SubServiceID,
			Date:         date,
			Time:         entry.DesiredTime.String(),
		})
		e.metrics.RecordWaitlistNotification(err)
		if err != nil {
			e.logger.Warn("Promote: failed to notify user=%d entry id=%d: %v", entry.UserID, entry.ID, err)
			continue
		}
		notifiedIDs = append(notifiedIDs, entry.ID)
	}

	if len(notifiedIDs) > 0 {
		if err := e.waitlist.MarkNotified(ctx, notifiedIDs, e.timeProvider.Now()); err != nil {
			return len(notifiedIDs), e.internal("mark notified", err)
		}
	}

	e.logger.Info("Promote: notified %d/%d waiting users for sub_service=%d %s %s",
		len(notifiedIDs), len(entries), key.SubServiceID, date, key.Time)

	return len(notifiedIDs), nil
}

// serviceName название услуги для текста уведомления; при ошибке используется общий текст
func (e *Engine) serviceName(ctx context.Context, serviceID int64) string {
	service, err := e.catalog.GetService(ctx, serviceID)
	if err != nil {
		e.logger.Warn("Promote: failed to get service id=%d: %v", serviceID, err)
		return "the service"
	}
	return service.Name
}

// SweepWaitlist проходит по очередям с неуведомлёнными записями на сегодня и позже
// и уведомляет ожидающих, если в их слоте есть свободные места.
// Возвращает общее число отправленных уведомлений.
func (e *Engine) SweepWaitlist(ctx context.Context) (int, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	keys, err := e.waitlist.ListPendingKeys(ctx, e.timeProvider.Now())
	if err != nil {
		e.logger.Error("SweepWaitlist: failed to list waiting keys: %v", err)
		return 0, e.internal("list pending keys", err)
	}

	total := 0
	for _, wkey := range keys {
		slot, err := e.slots.Get(ctx, wkey.SlotKey())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			e.logger.Error("SweepWaitlist: failed to get slot: %v", err)
			return total, e.internal("get slot", err)
		}
		if slot.IsFull() {
			continue
		}

		total += e.promote(ctx, wkey.SlotKey(), true)
	}

	e.logger.Info("SweepWaitlist: %d keys checked, %d users notified", len(keys), total)
	return total, nil
}

// CancelWait удаляет запись из листа ожидания (владелец или администратор)
func (e *Engine) CancelWait(ctx context.Context, entryID int64, actor Actor) error {
	e.logger.Info("CancelWait: entry_id=%d, actor=%d", entryID, actor.UserID)

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	entry, err := e.getEntry(ctx, entryID, actor)
	if err != nil {
		return err
	}

	if err := e.waitlist.Remove(ctx, entry.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrEntryNotFound
		}
		e.logger.Error("CancelWait: failed to remove entry id=%d: %v", entryID, err)
		return e.internal("remove entry", err)
	}

	e.logger.Info("CancelWait: entry id=%d removed", entryID)
	return nil
}

// GetWaitlistStatus возвращает запись листа ожидания и её позицию в очереди
func (e *Engine) GetWaitlistStatus(ctx context.Context, entryID int64, actor Actor) (*WaitlistStatus, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	entry, err := e.getEntry(ctx, entryID, actor)
	if err != nil {
		return nil, err
	}

	position, err := e.waitlist.Position(ctx, entry)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		e.logger.Error("GetWaitlistStatus: failed to get position entry id=%d: %v", entryID, err)
		return nil, e.internal("waitlist position", err)
	}

	return &WaitlistStatus{Entry: entry, Position: position}, nil
}

func (e *Engine) getEntry(ctx context.Context, entryID int64, actor Actor) (*domain.WaitlistEntry, error) {
	entry, err := e.waitlist.Get(ctx, entryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("waitlist entry id=%d not found", entryID)
			return nil, ErrEntryNotFound
		}
		e.logger.Error("failed to get waitlist entry id=%d: %v", entryID, err)
		return nil, e.internal("get entry", err)
	}

	if err := e.authorize(ctx, actor, entry.UserID, entry.ServiceID); err != nil {
		return nil, err
	}
	return entry, nil
}
