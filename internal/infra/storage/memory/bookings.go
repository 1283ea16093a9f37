package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
)

var (
	errBookingNotFound  = fmt.Errorf("memory: booking %w", domain.ErrNotFound)
	errAlreadyCancelled = fmt.Errorf("memory: %w", domain.ErrAlreadyCancelled)
	errNotConfirmed     = fmt.Errorf("memory: %w", domain.ErrNotConfirmed)
	errVersionConflict  = fmt.Errorf("memory: booking version mismatch: %w", domain.ErrConflict)
)

// Bookings журнал бронирований в памяти
type Bookings struct {
	s *Store
}

// Create создает подтверждённое бронирование
func (r *Bookings) Create(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	now := r.s.now()
	b := &domain.Booking{
		ID:               r.s.nextID(),
		UserID:           draft.UserID,
		ServiceID:        draft.ServiceID,
		SubServiceID:     draft.SubServiceID,
		Date:             domain.DateOnly(draft.Date),
		Time:             draft.Time,
		OriginalTimeSlot: draft.OriginalTimeSlot,
		WasRescheduled:   draft.WasRescheduled,
		TokenFee:         draft.TokenFee,
		Status:           domain.StatusConfirmed,
		Emergency:        draft.Emergency,
		ReferenceNumber:  draft.ReferenceNumber,
		BookingFor:       draft.BookingFor,
		Details:          draft.Details,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.s.bookings[b.ID] = b
	r.s.record(ctx, func() { delete(r.s.bookings, b.ID) })

	copied := *b
	return &copied, nil
}

// GetByID получает бронирование по ID
func (r *Bookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, errBookingNotFound
	}
	copied := *b
	return &copied, nil
}

// Cancel отменяет подтверждённое бронирование
func (r *Bookings) Cancel(ctx context.Context, id int64, actorID int64, at time.Time) (*domain.Booking, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, errBookingNotFound
	}
	if b.IsCancelled() {
		copied := *b
		return &copied, errAlreadyCancelled
	}

	prev := *b
	actor := actorID
	b.Status = domain.StatusCancelled
	b.CancelledAt = &at
	b.CancelledBy = &actor
	b.Version++
	b.UpdatedAt = r.s.now()
	r.s.record(ctx, func() { *b = prev })

	copied := *b
	return &copied, nil
}

// Reschedule переносит подтверждённое бронирование, проверяя версию
func (r *Bookings) Reschedule(ctx context.Context, id int64, key domain.SlotKey, actorID int64, expectedVersion int, at time.Time) (*domain.Booking, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, errBookingNotFound
	}
	if b.Status != domain.StatusConfirmed {
		return nil, errNotConfirmed
	}
	if b.Version != expectedVersion {
		return nil, errVersionConflict
	}

	prev := *b
	actor := actorID
	b.Date = domain.DateOnly(key.Date)
	b.Time = key.Time
	b.WasRescheduled = true
	b.RescheduledAt = &at
	b.RescheduledBy = &actor
	b.Version++
	b.UpdatedAt = r.s.now()
	r.s.record(ctx, func() { *b = prev })

	copied := *b
	return &copied, nil
}

// ListByUser получает бронирования пользователя (сначала новые)
func (r *Bookings) ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	list, err := r.filter(ctx, func(b *domain.Booking) bool { return b.UserID == userID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// ListByFilter получает бронирования услуги по фильтру
func (r *Bookings) ListByFilter(ctx context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	list, err := r.filter(ctx, func(b *domain.Booking) bool {
		if b.ServiceID != f.ServiceID {
			return false
		}
		if f.SubServiceID != nil && b.SubServiceID != *f.SubServiceID {
			return false
		}
		if f.StartDate != nil && b.Date.Before(domain.DateOnly(*f.StartDate)) {
			return false
		}
		if f.EndDate != nil && b.Date.After(domain.DateOnly(*f.EndDate)) {
			return false
		}
		if f.Status != nil && b.Status != *f.Status {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// ExistsConfirmed проверяет наличие подтверждённого бронирования пользователя на слот
func (r *Bookings) ExistsConfirmed(ctx context.Context, userID int64, key domain.SlotKey) (bool, error) {
	list, err := r.filter(ctx, func(b *domain.Booking) bool {
		return b.UserID == userID && b.Status == domain.StatusConfirmed && !b.Emergency && sameSlot(b, key)
	})
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

// ListConfirmedBySlot получает подтверждённые бронирования слота в порядке записи
func (r *Bookings) ListConfirmedBySlot(ctx context.Context, key domain.SlotKey) ([]*domain.Booking, error) {
	list, err := r.filter(ctx, func(b *domain.Booking) bool {
		return b.Status == domain.StatusConfirmed && !b.Emergency && sameSlot(b, key)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *Bookings) filter(ctx context.Context, match func(b *domain.Booking) bool) ([]*domain.Booking, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end(ctx)

	list := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if match(b) {
			copied := *b
			list = append(list, &copied)
		}
	}
	return list, nil
}

func sameSlot(b *domain.Booking, key domain.SlotKey) bool {
	return b.SubServiceID == key.SubServiceID &&
		b.Date.Equal(domain.DateOnly(key.Date)) &&
		b.Time == key.Time
}
