package allocation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

var testDate = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

type sentNotification struct {
	userID  int64
	message string
	nctx    domain.NotificationContext
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentNotification
	failID int64
}

func (n *fakeNotifier) Notify(_ context.Context, userID int64, message string, nctx domain.NotificationContext) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if userID == n.failID {
		return errors.New("delivery failed")
	}
	n.sent = append(n.sent, sentNotification{userID: userID, message: message, nctx: nctx})
	return nil
}

func (n *fakeNotifier) users() []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]int64, len(n.sent))
	for i, s := range n.sent {
		ids[i] = s.userID
	}
	return ids
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	engine   *Engine
	notifier *fakeNotifier
	service  *domain.Service
	sub      *domain.SubService
}

func newFixture(t *testing.T, fee int64) *fixture {
	t.Helper()
	ctx := context.Background()
	tick := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	store := memory.NewStore().WithClock(func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		tick = tick.Add(time.Millisecond)
		return tick
	})

	service, err := store.Catalog().CreateService(ctx, domain.Service{Name: "City Clinic", Category: "hospital", AdminIDs: []int64{900}})
	require.NoError(t, err)
	sub, err := store.Catalog().CreateSubService(ctx, domain.SubService{ServiceID: service.ID, Name: "General OPD", TokenFee: fee})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.RetryBaseDelay = 0

	notifier := &fakeNotifier{}
	engine := NewEngine(
		store.Slots(), store.Bookings(), store.Waitlist(), store.Accounts(), store.Catalog(),
		notifier, store.TxManager(), nil, cfg, logger.NewNop(),
	).WithTimeProvider(fixedTime{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)})

	return &fixture{ctx: ctx, store: store, engine: engine, notifier: notifier, service: service, sub: sub}
}

// rebuild пересобирает движок с подменёнными слотами и журналом
func (f *fixture) rebuild(slots SlotStore, bookings BookingLedger) {
	cfg := DefaultConfig()
	cfg.RetryBaseDelay = 0

	f.engine = NewEngine(
		slots, bookings, f.store.Waitlist(), f.store.Accounts(), f.store.Catalog(),
		f.notifier, f.store.TxManager(), nil, cfg, logger.NewNop(),
	).WithTimeProvider(fixedTime{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)})
}

// recordingSlots записывает порядок изменений счётчиков
type recordingSlots struct {
	SlotStore
	mu    sync.Mutex
	calls []string
}

func (r *recordingSlots) Reserve(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	r.add("reserve " + key.Time.String())
	return r.SlotStore.Reserve(ctx, key)
}

func (r *recordingSlots) Release(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	r.add("release " + key.Time.String())
	return r.SlotStore.Release(ctx, key)
}

func (r *recordingSlots) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// failingLedger журнал, у которого Create всегда завершается ошибкой
type failingLedger struct {
	BookingLedger
	err error
}

func (l failingLedger) Create(context.Context, domain.BookingDraft) (*domain.Booking, error) {
	return nil, l.err
}

func (f *fixture) slotKey(label string) domain.SlotKey {
	return domain.SlotKey{SubServiceID: f.sub.ID, Date: testDate, Time: types.MustTimeLabel(label)}
}

func (f *fixture) addSlot(t *testing.T, label string, capacity int) {
	t.Helper()
	_, err := f.store.Slots().Add(f.ctx, f.slotKey(label), capacity)
	require.NoError(t, err)
}

func (f *fixture) fund(t *testing.T, userID, amount int64) {
	t.Helper()
	_, err := f.store.Accounts().Ensure(f.ctx, userID)
	require.NoError(t, err)
	_, err = f.store.Accounts().Credit(f.ctx, userID, amount)
	require.NoError(t, err)
}

func (f *fixture) book(t *testing.T, userID int64, label string) *BookResult {
	t.Helper()
	res, err := f.engine.BookSlot(f.ctx, BookRequest{UserID: userID, SubServiceID: f.sub.ID, Date: testDate, Time: types.TimeLabel(label)})
	require.NoError(t, err)
	return res
}

func (f *fixture) booked(t *testing.T, label string) int {
	t.Helper()
	slot, err := f.store.Slots().Get(f.ctx, f.slotKey(label))
	require.NoError(t, err)
	return slot.Booked
}

func (f *fixture) balance(t *testing.T, userID int64) int64 {
	t.Helper()
	account, err := f.store.Accounts().Get(f.ctx, userID)
	require.NoError(t, err)
	return account.Balance
}

func TestBookSlot_ReservesRequestedSlot(t *testing.T) {
	f := newFixture(t, 10)
	f.addSlot(t, "9:00 AM", 3)
	f.fund(t, 1, 25)

	res := f.book(t, 1, "9:00 AM")

	assert.Equal(t, domain.AllocationReserved, res.Status)
	require.NotNil(t, res.Booking)
	assert.Equal(t, types.TimeLabel("9:00 AM"), res.Booking.Time)
	assert.Equal(t, types.TimeLabel("9:00 AM"), res.Booking.OriginalTimeSlot)
	assert.False(t, res.Booking.WasRescheduled)
	assert.Equal(t, domain.StatusConfirmed, res.Booking.Status)
	assert.Equal(t, int64(10), res.Booking.TokenFee)
	assert.Equal(t, 1, f.booked(t, "9:00 AM"))
	assert.Equal(t, int64(15), f.balance(t, 1))
}

func TestBookSlot_OverflowsToNextLaterSlot(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "11:00 AM", 1)
	f.addSlot(t, "9:00 AM", 1)
	f.addSlot(t, "10:00 AM", 1)
	f.addSlot(t, "8:00 AM", 1)

	require.Equal(t, domain.AllocationReserved, f.book(t, 1, "9:00 AM").Status)

	res := f.book(t, 2, "9:00 AM")

	assert.Equal(t, domain.AllocationOverflowed, res.Status)
	require.NotNil(t, res.Booking)
	assert.Equal(t, types.TimeLabel("10:00 AM"), res.Booking.Time)
	assert.Equal(t, types.TimeLabel("9:00 AM"), res.Booking.OriginalTimeSlot)
	assert.True(t, res.Booking.WasRescheduled)
	assert.Equal(t, 0, f.booked(t, "8:00 AM"))
}

func TestBookSlot_WaitlistsWhenNoLaterCapacity(t *testing.T) {
	f := newFixture(t, 5)
	f.addSlot(t, "9:00 AM", 1)
	f.addSlot(t, "10:00 AM", 1)
	for _, user := range []int64{1, 2, 3, 4} {
		f.fund(t, user, 5)
	}

	require.Equal(t, domain.AllocationReserved, f.book(t, 1, "9:00 AM").Status)
	require.Equal(t, domain.AllocationOverflowed, f.book(t, 2, "9:00 AM").Status)

	res := f.book(t, 3, "9:00 AM")
	assert.Equal(t, domain.AllocationWaitlisted, res.Status)
	assert.Nil(t, res.Booking)
	require.NotNil(t, res.WaitlistEntry)
	assert.Equal(t, 1, res.WaitlistPosition)
	assert.Equal(t, int64(5), f.balance(t, 3), "waitlisting must not debit")

	second := f.book(t, 4, "9:00 AM")
	assert.Equal(t, 2, second.WaitlistPosition)

	again := f.book(t, 3, "9:00 AM")
	assert.Equal(t, res.WaitlistEntry.ID, again.WaitlistEntry.ID)
	assert.Equal(t, 1, again.WaitlistPosition)
}

func TestBookSlot_Rejections(t *testing.T) {
	t.Run("insufficient balance has no side effects", func(t *testing.T) {
		f := newFixture(t, 50)
		f.addSlot(t, "9:00 AM", 3)
		f.fund(t, 1, 49)

		res := f.book(t, 1, "9:00 AM")

		assert.Equal(t, domain.AllocationRejected, res.Status)
		assert.Equal(t, domain.RejectInsufficientBalance, res.Reason)
		assert.Equal(t, 0, f.booked(t, "9:00 AM"))
		assert.Equal(t, int64(49), f.balance(t, 1))
	})

	t.Run("duplicate booking", func(t *testing.T) {
		f := newFixture(t, 0)
		f.addSlot(t, "9:00 AM", 3)

		require.Equal(t, domain.AllocationReserved, f.book(t, 1, "9:00 AM").Status)
		res := f.book(t, 1, "9:00 AM")

		assert.Equal(t, domain.AllocationRejected, res.Status)
		assert.Equal(t, domain.RejectDuplicateBooking, res.Reason)
		assert.Equal(t, 1, f.booked(t, "9:00 AM"))
	})
}

func TestBookSlot_InvalidRequests(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 1)

	_, err := f.engine.BookSlot(f.ctx, BookRequest{UserID: 1, SubServiceID: f.sub.ID, Date: testDate, Time: "25:99"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.engine.BookSlot(f.ctx, BookRequest{UserID: 1, SubServiceID: 999, Date: testDate, Time: "9:00 AM"})
	assert.ErrorIs(t, err, ErrSubServiceNotFound)

	_, err = f.engine.BookSlot(f.ctx, BookRequest{UserID: 1, SubServiceID: f.sub.ID, Date: testDate, Time: "3:00 PM"})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = f.engine.BookSlot(f.ctx, BookRequest{UserID: 1, ServiceID: f.service.ID + 100, SubServiceID: f.sub.ID, Date: testDate, Time: "9:00 AM"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBookSlot_ConcurrentRequestsNeverOverbook(t *testing.T) {
	f := newFixture(t, 0)
	const capacity, users = 5, 40
	f.addSlot(t, "9:00 AM", capacity)

	var (
		mu     sync.Mutex
		counts = make(map[domain.AllocationStatus]int)
		wg     sync.WaitGroup
	)
	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			res, err := f.engine.BookSlot(f.ctx, BookRequest{UserID: userID, SubServiceID: f.sub.ID, Date: testDate, Time: "9:00 AM"})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			counts[res.Status]++
			mu.Unlock()
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, capacity, counts[domain.AllocationReserved])
	assert.Equal(t, users-capacity, counts[domain.AllocationWaitlisted])
	assert.Equal(t, capacity, f.booked(t, "9:00 AM"))

	confirmed, err := f.store.Bookings().ListConfirmedBySlot(f.ctx, f.slotKey("9:00 AM"))
	require.NoError(t, err)
	assert.Len(t, confirmed, capacity)
}

func TestBookSlot_StorageTimeout(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 1)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := f.engine.BookSlot(ctx, BookRequest{UserID: 1, SubServiceID: f.sub.ID, Date: testDate, Time: "9:00 AM"})

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrStorageTimeout)
}

func TestCancelBooking_ReleasesRefundsAndNotifiesOldestThree(t *testing.T) {
	f := newFixture(t, 10)
	f.addSlot(t, "9:00 AM", 1)
	for _, user := range []int64{1, 2, 3, 4, 5} {
		f.fund(t, user, 10)
	}

	owner := f.book(t, 1, "9:00 AM")
	require.Equal(t, domain.AllocationReserved, owner.Status)
	for _, user := range []int64{2, 3, 4, 5} {
		require.Equal(t, domain.AllocationWaitlisted, f.book(t, user, "9:00 AM").Status)
	}

	res, err := f.engine.CancelBooking(f.ctx, owner.Booking.ID, Actor{UserID: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.CancelOk, res.Status)
	assert.Equal(t, domain.StatusCancelled, res.Booking.Status)
	require.NotNil(t, res.Booking.CancelledBy)
	assert.Equal(t, int64(1), *res.Booking.CancelledBy)
	assert.Equal(t, 0, f.booked(t, "9:00 AM"))
	assert.Equal(t, int64(10), f.balance(t, 1))

	assert.Equal(t, 3, res.Notified)
	assert.Equal(t, []int64{2, 3, 4}, f.notifier.users())
	assert.Equal(t, "An earlier slot (9:00 AM on 2026-05-10) is now available for your booking at City Clinic!", f.notifier.sent[0].message)
	assert.Equal(t, domain.NotificationSlotAvailable, f.notifier.sent[0].nctx.Type)

	// Уведомление не бронирует: место достаётся первому, кто его займёт
	late := f.book(t, 5, "9:00 AM")
	assert.Equal(t, domain.AllocationReserved, late.Status)
}

func TestCancelBooking_IsIdempotent(t *testing.T) {
	f := newFixture(t, 10)
	f.addSlot(t, "9:00 AM", 2)
	f.fund(t, 1, 10)

	booking := f.book(t, 1, "9:00 AM").Booking

	first, err := f.engine.CancelBooking(f.ctx, booking.ID, Actor{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, domain.CancelOk, first.Status)

	second, err := f.engine.CancelBooking(f.ctx, booking.ID, Actor{UserID: 1})
	require.NoError(t, err)

	assert.Equal(t, domain.CancelAlreadyCancelled, second.Status)
	assert.Equal(t, 0, f.booked(t, "9:00 AM"))
	assert.Equal(t, int64(10), f.balance(t, 1), "refund must happen once")
}

func TestCancelBooking_Authorization(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 3)

	booking := f.book(t, 1, "9:00 AM").Booking

	_, err := f.engine.CancelBooking(f.ctx, booking.ID, Actor{UserID: 2})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	res, err := f.engine.CancelBooking(f.ctx, booking.ID, Actor{UserID: 900})
	require.NoError(t, err)
	assert.Equal(t, domain.CancelOk, res.Status)

	missing, err := f.engine.CancelBooking(f.ctx, 12345, Actor{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.CancelNotFound, missing.Status)
}

func TestRescheduleBooking(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 1)
	f.addSlot(t, "11:00 AM", 1)

	booking := f.book(t, 1, "9:00 AM").Booking
	require.Equal(t, domain.AllocationOverflowed, f.book(t, 2, "9:00 AM").Status)
	require.Equal(t, domain.AllocationWaitlisted, f.book(t, 3, "9:00 AM").Status)

	full, err := f.engine.RescheduleBooking(f.ctx, RescheduleRequest{
		BookingID: booking.ID, Actor: Actor{UserID: 1}, NewDate: testDate, NewTime: "11:00 AM",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RescheduleSlotFull, full.Status)
	assert.Equal(t, 1, f.booked(t, "9:00 AM"), "old slot must stay reserved")

	_, err = f.engine.RescheduleBooking(f.ctx, RescheduleRequest{
		BookingID: booking.ID, Actor: Actor{UserID: 1}, NewDate: testDate, NewTime: "4:00 PM",
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	f.addSlot(t, "2:00 PM", 1)
	res, err := f.engine.RescheduleBooking(f.ctx, RescheduleRequest{
		BookingID: booking.ID, Actor: Actor{UserID: 1}, NewDate: testDate, NewTime: "2:00 PM",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RescheduleOk, res.Status)
	assert.Equal(t, types.TimeLabel("2:00 PM"), res.Booking.Time)
	assert.Equal(t, types.TimeLabel("9:00 AM"), res.Booking.OriginalTimeSlot)
	assert.True(t, res.Booking.WasRescheduled)
	assert.Equal(t, 0, f.booked(t, "9:00 AM"))
	assert.Equal(t, 1, f.booked(t, "2:00 PM"))
	assert.Equal(t, 1, res.Notified)
	assert.Equal(t, []int64{3}, f.notifier.users())

	missing, err := f.engine.RescheduleBooking(f.ctx, RescheduleRequest{
		BookingID: 777, Actor: Actor{UserID: 1}, NewDate: testDate, NewTime: "2:00 PM",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RescheduleNotFound, missing.Status)
}

func TestRescheduleBooking_ReservesTargetBeforeReleasingOld(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 1)
	f.addSlot(t, "2:00 PM", 1)

	booking := f.book(t, 1, "9:00 AM").Booking

	slots := &recordingSlots{SlotStore: f.store.Slots()}
	f.rebuild(slots, f.store.Bookings())

	res, err := f.engine.RescheduleBooking(f.ctx, RescheduleRequest{
		BookingID: booking.ID, Actor: Actor{UserID: 1}, NewDate: testDate, NewTime: "2:00 PM",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RescheduleOk, res.Status)

	assert.Equal(t, []string{"reserve 2:00 PM", "release 9:00 AM"}, slots.calls)
}

func TestBookSlot_CreateFailureLeavesSlotAndBalanceUntouched(t *testing.T) {
	f := newFixture(t, 10)
	f.addSlot(t, "9:00 AM", 1)
	f.fund(t, 1, 10)

	f.rebuild(f.store.Slots(), failingLedger{BookingLedger: f.store.Bookings(), err: errors.New("insert failed")})

	_, err := f.engine.BookSlot(f.ctx, BookRequest{UserID: 1, SubServiceID: f.sub.ID, Date: testDate, Time: "9:00 AM"})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, f.booked(t, "9:00 AM"))
	assert.Equal(t, int64(10), f.balance(t, 1))
}

func TestRescheduleBooking_CancelledBooking(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 1)
	f.addSlot(t, "10:00 AM", 1)

	booking := f.book(t, 1, "9:00 AM").Booking
	_, err := f.engine.CancelBooking(f.ctx, booking.ID, Actor{UserID: 1})
	require.NoError(t, err)

	_, err = f.engine.RescheduleBooking(f.ctx, RescheduleRequest{
		BookingID: booking.ID, Actor: Actor{UserID: 1}, NewDate: testDate, NewTime: "10:00 AM",
	})

	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, 0, f.booked(t, "10:00 AM"))
}

func TestPromote_SkipsFailedDeliveries(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 1)

	booking := f.book(t, 1, "9:00 AM").Booking
	for _, user := range []int64{2, 3} {
		require.Equal(t, domain.AllocationWaitlisted, f.book(t, user, "9:00 AM").Status)
	}
	f.notifier.failID = 2

	res, err := f.engine.CancelBooking(f.ctx, booking.ID, Actor{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Notified)

	// Не доставленное уведомление повторяется при обходе очередей
	f.notifier.failID = 0
	swept, err := f.engine.SweepWaitlist(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, []int64{3, 2}, f.notifier.users())

	again, err := f.engine.SweepWaitlist(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestWaitlist_CancelWaitAndStatus(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 1)

	f.book(t, 1, "9:00 AM")
	first := f.book(t, 2, "9:00 AM").WaitlistEntry
	second := f.book(t, 3, "9:00 AM").WaitlistEntry

	status, err := f.engine.GetWaitlistStatus(f.ctx, second.ID, Actor{UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, status.Position)

	err = f.engine.CancelWait(f.ctx, first.ID, Actor{UserID: 3})
	assert.ErrorIs(t, err, ErrAccessDenied)

	require.NoError(t, f.engine.CancelWait(f.ctx, first.ID, Actor{UserID: 2}))
	assert.ErrorIs(t, f.engine.CancelWait(f.ctx, first.ID, Actor{UserID: 2}), ErrEntryNotFound)

	status, err = f.engine.GetWaitlistStatus(f.ctx, second.ID, Actor{UserID: 0, Admin: true})
	require.NoError(t, err)
	assert.Equal(t, 1, status.Position)
}

func TestBookSlot_RemovesOwnWaitlistEntry(t *testing.T) {
	f := newFixture(t, 0)
	f.addSlot(t, "9:00 AM", 1)

	owner := f.book(t, 1, "9:00 AM").Booking
	entry := f.book(t, 2, "9:00 AM").WaitlistEntry
	require.NotNil(t, entry)

	_, err := f.engine.CancelBooking(f.ctx, owner.ID, Actor{UserID: 1})
	require.NoError(t, err)

	require.Equal(t, domain.AllocationReserved, f.book(t, 2, "9:00 AM").Status)

	_, err = f.engine.GetWaitlistStatus(f.ctx, entry.ID, Actor{UserID: 2})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}
