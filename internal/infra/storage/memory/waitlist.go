package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var errEntryNotFound = fmt.Errorf("memory: waitlist entry %w", domain.ErrNotFound)

// Waitlist лист ожидания в памяти
type Waitlist struct {
	s *Store
}

// Enqueue ставит пользователя в очередь (повторная постановка возвращает существующую запись)
func (r *Waitlist) Enqueue(ctx context.Context, entry domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	key := normalizeKey(entry.Key())
	for _, e := range r.s.waitlist {
		if e.UserID == entry.UserID && normalizeKey(e.Key()) == key {
			copied := *e
			return &copied, nil
		}
	}

	e := &domain.WaitlistEntry{
		ID:           r.s.nextID(),
		UserID:       entry.UserID,
		ServiceID:    entry.ServiceID,
		SubServiceID: entry.SubServiceID,
		Date:         key.Date,
		DesiredTime:  entry.DesiredTime,
		CreatedAt:    r.s.now(),
	}
	r.s.waitlist[e.ID] = e
	r.s.record(ctx, func() { delete(r.s.waitlist, e.ID) })

	copied := *e
	return &copied, nil
}

// Get получает запись по ID
func (r *Waitlist) Get(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	e, ok := r.s.waitlist[id]
	if !ok {
		return nil, errEntryNotFound
	}
	copied := *e
	return &copied, nil
}

// PeekOldest возвращает до n самых старых записей очереди без удаления
func (r *Waitlist) PeekOldest(ctx context.Context, key domain.WaitlistKey, n int, pendingOnly bool) ([]*domain.WaitlistEntry, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	queue := r.queue(normalizeKey(key))
	result := make([]*domain.WaitlistEntry, 0, n)
	for _, e := range queue {
		if len(result) == n {
			break
		}
		if pendingOnly && e.NotifiedAt != nil {
			continue
		}
		copied := *e
		result = append(result, &copied)
	}
	return result, nil
}

// Remove удаляет запись из очереди
func (r *Waitlist) Remove(ctx context.Context, id int64) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end(ctx)

	e, ok := r.s.waitlist[id]
	if !ok {
		return errEntryNotFound
	}
	delete(r.s.waitlist, id)
	r.s.record(ctx, func() { r.s.waitlist[id] = e })
	return nil
}

// RemoveForUser удаляет записи пользователя по ключу
func (r *Waitlist) RemoveForUser(ctx context.Context, userID int64, key domain.WaitlistKey) (int64, error) {
	if err := r.s.begin(ctx); err != nil {
		return 0, err
	}
	defer r.s.end(ctx)

	norm := normalizeKey(key)
	var removed int64
	for id, e := range r.s.waitlist {
		if e.UserID != userID || normalizeKey(e.Key()) != norm {
			continue
		}
		id, e := id, e
		delete(r.s.waitlist, id)
		r.s.record(ctx, func() { r.s.waitlist[id] = e })
		removed++
	}
	return removed, nil
}

// Position позиция записи в очереди, начиная с 1
func (r *Waitlist) Position(ctx context.Context, entry *domain.WaitlistEntry) (int, error) {
	if err := r.s.begin(ctx); err != nil {
		return 0, err
	}
	defer r.s.end(ctx)

	for i, e := range r.queue(normalizeKey(entry.Key())) {
		if e.ID == entry.ID {
			return i + 1, nil
		}
	}
	return 0, errEntryNotFound
}

// MarkNotified отмечает время уведомления
func (r *Waitlist) MarkNotified(ctx context.Context, ids []int64, at time.Time) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end(ctx)

	for _, id := range ids {
		e, ok := r.s.waitlist[id]
		if !ok {
			continue
		}
		notifiedAt := at
		e.NotifiedAt = &notifiedAt
	}
	return nil
}

// ListPendingKeys ключи очередей с неуведомлёнными записями на даты не раньше from
func (r *Waitlist) ListPendingKeys(ctx context.Context, from time.Time) ([]domain.WaitlistKey, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	day := domain.DateOnly(from)
	seen := make(map[domain.WaitlistKey]struct{})
	keys := make([]domain.WaitlistKey, 0)
	for _, e := range r.s.waitlist {
		if e.NotifiedAt != nil || e.Date.Before(day) {
			continue
		}
		key := normalizeKey(e.Key())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].Date.Equal(keys[j].Date) {
			return keys[i].Date.Before(keys[j].Date)
		}
		if keys[i].SubServiceID != keys[j].SubServiceID {
			return keys[i].SubServiceID < keys[j].SubServiceID
		}
		return keys[i].DesiredTime < keys[j].DesiredTime
	})
	return keys, nil
}

// ListByUser записи пользователя во всех очередях
func (r *Waitlist) ListByUser(ctx context.Context, userID int64) ([]*domain.WaitlistEntry, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	list := make([]*domain.WaitlistEntry, 0)
	for _, e := range r.s.waitlist {
		if e.UserID == userID {
			copied := *e
			list = append(list, &copied)
		}
	}
	sortFIFO(list)
	return list, nil
}

// queue записи очереди в порядке FIFO. Вызывается под s.mu.
func (r *Waitlist) queue(key domain.WaitlistKey) []*domain.WaitlistEntry {
	list := make([]*domain.WaitlistEntry, 0)
	for _, e := range r.s.waitlist {
		if normalizeKey(e.Key()) == key {
			list = append(list, e)
		}
	}
	sortFIFO(list)
	return list
}

func sortFIFO(list []*domain.WaitlistEntry) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

func normalizeKey(key domain.WaitlistKey) domain.WaitlistKey {
	key.Date = domain.DateOnly(key.Date)
	return key
}
