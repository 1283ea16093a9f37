package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func TestExecute_OrdersSlotsByTimeOfDay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	svc, err := store.Catalog().CreateService(ctx, domain.Service{Name: "Bank"})
	require.NoError(t, err)
	sub, err := store.Catalog().CreateSubService(ctx, domain.SubService{ServiceID: svc.ID, Name: "Loans", TokenFee: 3})
	require.NoError(t, err)

	for _, label := range []string{"1:00 PM", "9:00 AM", "11:30 AM"} {
		_, err := store.Slots().Add(ctx, domain.SlotKey{SubServiceID: sub.ID, Date: day, Time: types.MustTimeLabel(label)}, 2)
		require.NoError(t, err)
	}
	_, err = store.Slots().Reserve(ctx, domain.SlotKey{SubServiceID: sub.ID, Date: day, Time: "11:30 AM"})
	require.NoError(t, err)

	uc := NewUseCase(store.Slots(), store.Catalog(), logger.NewNop())

	resp, err := uc.Execute(ctx, &Request{SubServiceID: sub.ID, Date: day.Add(15 * time.Hour)})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeLabel("9:00 AM"), resp.Slots[0].Time)
	assert.Equal(t, types.TimeLabel("11:30 AM"), resp.Slots[1].Time)
	assert.Equal(t, 1, resp.Slots[1].Booked)
	assert.Equal(t, 1, resp.Slots[1].Available)
	assert.Equal(t, types.TimeLabel("1:00 PM"), resp.Slots[2].Time)
	assert.Equal(t, svc.ID, resp.ServiceID)
	assert.Equal(t, int64(3), resp.TokenFee)

	_, err = uc.Execute(ctx, &Request{SubServiceID: 999, Date: day})
	assert.ErrorIs(t, err, ErrSubServiceNotFound)

	_, err = uc.Execute(ctx, &Request{SubServiceID: sub.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecuteDates_SkipsPastDates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	today := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	svc, err := store.Catalog().CreateService(ctx, domain.Service{Name: "Bank"})
	require.NoError(t, err)
	sub, err := store.Catalog().CreateSubService(ctx, domain.SubService{ServiceID: svc.ID, Name: "Loans"})
	require.NoError(t, err)

	for _, d := range []time.Time{today.AddDate(0, 0, -1), today, today.AddDate(0, 0, 3)} {
		_, err := store.Slots().Add(ctx, domain.SlotKey{SubServiceID: sub.ID, Date: d, Time: "9:00 AM"}, 1)
		require.NoError(t, err)
	}

	uc := NewUseCase(store.Slots(), store.Catalog(), logger.NewNop()).
		WithTimeProvider(fixedTime{now: today.Add(18 * time.Hour)})

	resp, err := uc.ExecuteDates(ctx, &DatesRequest{SubServiceID: sub.ID})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{today, today.AddDate(0, 0, 3)}, resp.Dates)

	all, err := uc.ExecuteDates(ctx, &DatesRequest{SubServiceID: sub.ID, IncludePast: true})
	require.NoError(t, err)
	assert.Len(t, all.Dates, 3)
}
