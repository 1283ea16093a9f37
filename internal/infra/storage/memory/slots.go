package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	errSlotNotFound    = fmt.Errorf("memory: slot %w", domain.ErrNotFound)
	errSlotFull        = fmt.Errorf("memory: %w", domain.ErrSlotFull)
	errSlotExists      = fmt.Errorf("memory: %w", domain.ErrSlotExists)
	errSlotHasBookings = fmt.Errorf("memory: %w", domain.ErrSlotHasBookings)
)

// Slots временные слоты в памяти
type Slots struct {
	s *Store
}

// Get получает слот по ключу
func (r *Slots) Get(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	rec, ok := r.s.slots[slotID(key)]
	if !ok {
		return nil, errSlotNotFound
	}
	slot := rec.slot
	return &slot, nil
}

// ListByDate получает слоты направления на дату в порядке добавления
func (r *Slots) ListByDate(ctx context.Context, subServiceID int64, date time.Time) ([]*domain.TimeSlot, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	day := domain.DateOnly(date)
	recs := make([]*slotRecord, 0)
	for _, rec := range r.s.slots {
		if rec.slot.SubServiceID == subServiceID && rec.slot.Date.Equal(day) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	slots := make([]*domain.TimeSlot, len(recs))
	for i, rec := range recs {
		slot := rec.slot
		slots[i] = &slot
	}
	return slots, nil
}

// ListDates получает даты, на которые у направления есть слоты
func (r *Slots) ListDates(ctx context.Context, subServiceID int64, from *time.Time) ([]time.Time, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	seen := make(map[time.Time]struct{})
	dates := make([]time.Time, 0)
	for _, rec := range r.s.slots {
		if rec.slot.SubServiceID != subServiceID {
			continue
		}
		if from != nil && rec.slot.Date.Before(domain.DateOnly(*from)) {
			continue
		}
		if _, ok := seen[rec.slot.Date]; ok {
			continue
		}
		seen[rec.slot.Date] = struct{}{}
		dates = append(dates, rec.slot.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Reserve занимает одно место, если booked < capacity
func (r *Slots) Reserve(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	rec, ok := r.s.slots[slotID(key)]
	if !ok {
		return nil, errSlotNotFound
	}
	if rec.slot.Booked >= rec.slot.Capacity {
		return nil, errSlotFull
	}

	rec.slot.Booked++
	r.s.record(ctx, func() {
		if rec.slot.Booked > 0 {
			rec.slot.Booked--
		}
	})

	slot := rec.slot
	return &slot, nil
}

// Release освобождает одно место (не ниже нуля)
func (r *Slots) Release(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	rec, ok := r.s.slots[slotID(key)]
	if !ok {
		return nil, errSlotNotFound
	}

	if rec.slot.Booked > 0 {
		rec.slot.Booked--
		r.s.record(ctx, func() {
			if rec.slot.Booked < rec.slot.Capacity {
				rec.slot.Booked++
			}
		})
	}

	slot := rec.slot
	return &slot, nil
}

// Add создает новый слот
func (r *Slots) Add(ctx context.Context, key domain.SlotKey, capacity int) (*domain.TimeSlot, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	id := slotID(key)
	if _, ok := r.s.slots[id]; ok {
		return nil, errSlotExists
	}

	rec := &slotRecord{
		slot: domain.TimeSlot{
			SubServiceID: key.SubServiceID,
			Date:         domain.DateOnly(key.Date),
			Time:         key.Time,
			Capacity:     capacity,
			CreatedAt:    r.s.now(),
		},
		seq: r.s.nextID(),
	}
	r.s.slots[id] = rec
	r.s.record(ctx, func() { delete(r.s.slots, id) })

	slot := rec.slot
	return &slot, nil
}

// SetCapacity меняет вместимость, не опуская её ниже booked
func (r *Slots) SetCapacity(ctx context.Context, key domain.SlotKey, capacity int) (*domain.TimeSlot, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	rec, ok := r.s.slots[slotID(key)]
	if !ok {
		return nil, errSlotNotFound
	}
	if rec.slot.Booked > capacity {
		return nil, errSlotHasBookings
	}

	prev := rec.slot.Capacity
	rec.slot.Capacity = capacity
	r.s.record(ctx, func() { rec.slot.Capacity = prev })

	slot := rec.slot
	return &slot, nil
}

// Delete удаляет слот; без force только если booked = 0
func (r *Slots) Delete(ctx context.Context, key domain.SlotKey, force bool) (*domain.TimeSlot, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	id := slotID(key)
	rec, ok := r.s.slots[id]
	if !ok {
		return nil, errSlotNotFound
	}
	if rec.slot.Booked > 0 && !force {
		return nil, errSlotHasBookings
	}

	delete(r.s.slots, id)
	r.s.record(ctx, func() { r.s.slots[id] = rec })

	slot := rec.slot
	return &slot, nil
}
