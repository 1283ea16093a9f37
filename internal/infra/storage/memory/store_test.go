package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

var day = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

func key(label string) domain.SlotKey {
	return domain.SlotKey{SubServiceID: 1, Date: day, Time: types.MustTimeLabel(label)}
}

func TestSlots_ReserveRelease(t *testing.T) {
	ctx := context.Background()
	slots := NewStore().Slots()

	_, err := slots.Add(ctx, key("9:00 AM"), 2)
	require.NoError(t, err)

	_, err = slots.Add(ctx, key("9:00 AM"), 2)
	assert.ErrorIs(t, err, domain.ErrSlotExists)

	for i := 0; i < 2; i++ {
		_, err := slots.Reserve(ctx, key("9:00 AM"))
		require.NoError(t, err)
	}

	_, err = slots.Reserve(ctx, key("9:00 AM"))
	assert.ErrorIs(t, err, domain.ErrSlotFull)

	_, err = slots.Reserve(ctx, key("10:00 AM"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for i := 0; i < 3; i++ {
		_, err := slots.Release(ctx, key("9:00 AM"))
		require.NoError(t, err)
	}

	slot, err := slots.Get(ctx, key("9:00 AM"))
	require.NoError(t, err)
	assert.Equal(t, 0, slot.Booked)
}

func TestSlots_ConcurrentReserveNeverExceedsCapacity(t *testing.T) {
	ctx := context.Background()
	slots := NewStore().Slots()
	const capacity, workers = 5, 50

	_, err := slots.Add(ctx, key("9:00 AM"), capacity)
	require.NoError(t, err)

	var ok int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := slots.Reserve(ctx, key("9:00 AM")); err == nil {
				atomic.AddInt64(&ok, 1)
			}
		}()
	}
	wg.Wait()

	slot, err := slots.Get(ctx, key("9:00 AM"))
	require.NoError(t, err)
	assert.Equal(t, int64(capacity), ok)
	assert.Equal(t, capacity, slot.Booked)
}

func TestSlots_DeleteAndCapacity(t *testing.T) {
	ctx := context.Background()
	slots := NewStore().Slots()

	_, err := slots.Add(ctx, key("9:00 AM"), 3)
	require.NoError(t, err)
	_, err = slots.Reserve(ctx, key("9:00 AM"))
	require.NoError(t, err)

	_, err = slots.SetCapacity(ctx, key("9:00 AM"), 0)
	assert.ErrorIs(t, err, domain.ErrSlotHasBookings)

	_, err = slots.Delete(ctx, key("9:00 AM"), false)
	assert.ErrorIs(t, err, domain.ErrSlotHasBookings)

	_, err = slots.Delete(ctx, key("9:00 AM"), true)
	require.NoError(t, err)

	_, err = slots.Get(ctx, key("9:00 AM"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	slots, accounts, bookings := store.Slots(), store.Accounts(), store.Bookings()

	_, err := slots.Add(ctx, key("9:00 AM"), 1)
	require.NoError(t, err)
	_, err = accounts.Ensure(ctx, 7)
	require.NoError(t, err)
	_, err = accounts.Credit(ctx, 7, 10)
	require.NoError(t, err)

	boom := errors.New("boom")
	var createdID int64
	err = store.TxManager().Do(ctx, func(ctx context.Context) error {
		if _, err := slots.Reserve(ctx, key("9:00 AM")); err != nil {
			return err
		}
		if _, err := accounts.Debit(ctx, 7, 10); err != nil {
			return err
		}
		b, err := bookings.Create(ctx, domain.BookingDraft{UserID: 7, SubServiceID: 1, Date: day, Time: "9:00 AM"})
		if err != nil {
			return err
		}
		createdID = b.ID
		return boom
	})
	assert.ErrorIs(t, err, boom)

	slot, err := slots.Get(ctx, key("9:00 AM"))
	require.NoError(t, err)
	assert.Equal(t, 0, slot.Booked)

	account, err := accounts.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(10), account.Balance)

	_, err = bookings.GetByID(ctx, createdID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxManager_UncommittedChangesAreInvisible(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	slots := store.Slots()

	_, err := slots.Add(ctx, key("9:00 AM"), 1)
	require.NoError(t, err)

	reserved := make(chan struct{})
	rollback := make(chan struct{})
	boom := errors.New("debit failed")

	txDone := make(chan error, 1)
	go func() {
		txDone <- store.TxManager().Do(ctx, func(ctx context.Context) error {
			if _, err := slots.Reserve(ctx, key("9:00 AM")); err != nil {
				return err
			}
			close(reserved)
			<-rollback
			return boom
		})
	}()
	<-reserved

	observed := make(chan int, 1)
	go func() {
		slot, err := slots.Get(ctx, key("9:00 AM"))
		if err != nil {
			observed <- -1
			return
		}
		observed <- slot.Booked
	}()

	select {
	case booked := <-observed:
		t.Fatalf("read finished inside an open transaction, booked=%d", booked)
	case <-time.After(50 * time.Millisecond):
	}

	close(rollback)
	assert.ErrorIs(t, <-txDone, boom)
	assert.Equal(t, 0, <-observed)
}

func TestStore_ExpiredContextIsStorageTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := NewStore().Slots().Get(ctx, key("9:00 AM"))

	assert.ErrorIs(t, err, domain.ErrStorageTimeout)
}

func TestBookings_CancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	bookings := NewStore().Bookings()

	b, err := bookings.Create(ctx, domain.BookingDraft{UserID: 7, SubServiceID: 1, Date: day, Time: "9:00 AM"})
	require.NoError(t, err)

	cancelled, err := bookings.Cancel(ctx, b.ID, 7, time.Now())
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled())

	again, err := bookings.Cancel(ctx, b.ID, 7, time.Now())
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Equal(t, cancelled.Version, again.Version)

	_, err = bookings.Reschedule(ctx, b.ID, key("10:00 AM"), 7, again.Version, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotConfirmed)
}

func TestWaitlist_FIFOAndIdempotentEnqueue(t *testing.T) {
	ctx := context.Background()
	tick := day
	store := NewStore().WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})
	waitlist := store.Waitlist()
	wkey := domain.WaitlistKey{SubServiceID: 1, Date: day, DesiredTime: "9:00 AM"}

	var ids []int64
	for _, user := range []int64{10, 11, 12, 13} {
		e, err := waitlist.Enqueue(ctx, domain.WaitlistEntry{UserID: user, SubServiceID: 1, Date: day, DesiredTime: "9:00 AM"})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	again, err := waitlist.Enqueue(ctx, domain.WaitlistEntry{UserID: 11, SubServiceID: 1, Date: day, DesiredTime: "9:00 AM"})
	require.NoError(t, err)
	assert.Equal(t, ids[1], again.ID)

	oldest, err := waitlist.PeekOldest(ctx, wkey, 3, false)
	require.NoError(t, err)
	require.Len(t, oldest, 3)
	assert.Equal(t, []int64{10, 11, 12}, []int64{oldest[0].UserID, oldest[1].UserID, oldest[2].UserID})

	pos, err := waitlist.Position(ctx, oldest[2])
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	require.NoError(t, waitlist.MarkNotified(ctx, ids[:2], time.Now()))
	pending, err := waitlist.PeekOldest(ctx, wkey, 3, true)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(12), pending[0].UserID)

	require.NoError(t, waitlist.Remove(ctx, ids[0]))
	assert.ErrorIs(t, waitlist.Remove(ctx, ids[0]), domain.ErrNotFound)
}
