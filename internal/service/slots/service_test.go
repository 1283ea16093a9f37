package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	"github.com/m04kA/EffiQ-BookingService/internal/service/slots/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
	"github.com/m04kA/EffiQ-BookingService/pkg/ptr"
)

type promoterStub struct {
	keys []domain.SlotKey
}

func (p *promoterStub) PromoteFromWaitlist(_ context.Context, key domain.SlotKey) (int, error) {
	p.keys = append(p.keys, key)
	return 2, nil
}

var day = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *memory.Store, *promoterStub, int64) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	svc, err := store.Catalog().CreateService(ctx, domain.Service{Name: "Clinic", AdminIDs: []int64{900}})
	require.NoError(t, err)
	sub, err := store.Catalog().CreateSubService(ctx, domain.SubService{ServiceID: svc.ID, Name: "OPD"})
	require.NoError(t, err)

	promoter := &promoterStub{}
	return NewService(store.Slots(), store.Catalog(), promoter, logger.NewNop()), store, promoter, sub.ID
}

func slotReq(userID, subID int64, label string) models.SlotRequest {
	return models.SlotRequest{UserID: userID, SubServiceID: subID, Date: day, Time: label}
}

func TestAddSlot(t *testing.T) {
	service, _, _, subID := setup(t)
	ctx := context.Background()

	_, err := service.AddSlot(ctx, &models.AddSlotRequest{SlotRequest: slotReq(1, subID, "9:00 AM")})
	assert.ErrorIs(t, err, ErrAccessDenied)

	created, err := service.AddSlot(ctx, &models.AddSlotRequest{SlotRequest: slotReq(900, subID, "9:00 am")})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlotCapacity, created.Capacity)
	assert.Equal(t, "9:00 AM", created.Time)

	_, err = service.AddSlot(ctx, &models.AddSlotRequest{SlotRequest: slotReq(900, subID, "9:00 AM")})
	assert.ErrorIs(t, err, ErrSlotExists)

	_, err = service.AddSlot(ctx, &models.AddSlotRequest{SlotRequest: slotReq(900, subID, "10:00 AM"), Capacity: ptr.Ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AddSlot(ctx, &models.AddSlotRequest{SlotRequest: slotReq(900, subID, "noon")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AddSlot(ctx, &models.AddSlotRequest{SlotRequest: slotReq(900, 999, "9:00 AM")})
	assert.ErrorIs(t, err, ErrSubServiceNotFound)
}

func TestSetCapacity_PromotesWhenSpaceAppears(t *testing.T) {
	service, store, promoter, subID := setup(t)
	ctx := context.Background()

	_, err := service.AddSlot(ctx, &models.AddSlotRequest{SlotRequest: slotReq(900, subID, "9:00 AM"), Capacity: ptr.Ptr(2)})
	require.NoError(t, err)
	key := domain.SlotKey{SubServiceID: subID, Date: day, Time: "9:00 AM"}
	for i := 0; i < 2; i++ {
		_, err := store.Slots().Reserve(ctx, key)
		require.NoError(t, err)
	}

	_, err = service.SetCapacity(ctx, &models.SetCapacityRequest{SlotRequest: slotReq(900, subID, "9:00 AM"), Capacity: 1})
	assert.ErrorIs(t, err, ErrSlotHasBookings)

	resp, err := service.SetCapacity(ctx, &models.SetCapacityRequest{SlotRequest: slotReq(900, subID, "9:00 AM"), Capacity: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Available)
	assert.Equal(t, 2, resp.Notified)
	require.Len(t, promoter.keys, 1)
	assert.Equal(t, key, promoter.keys[0])

	_, err = service.SetCapacity(ctx, &models.SetCapacityRequest{SlotRequest: slotReq(900, subID, "3:00 PM"), Capacity: 4})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestDeleteSlot(t *testing.T) {
	service, store, _, subID := setup(t)
	ctx := context.Background()

	_, err := service.AddSlot(ctx, &models.AddSlotRequest{SlotRequest: slotReq(900, subID, "9:00 AM")})
	require.NoError(t, err)
	_, err = store.Slots().Reserve(ctx, domain.SlotKey{SubServiceID: subID, Date: day, Time: "9:00 AM"})
	require.NoError(t, err)

	_, err = service.DeleteSlot(ctx, &models.DeleteSlotRequest{SlotRequest: slotReq(900, subID, "9:00 AM")})
	assert.ErrorIs(t, err, ErrSlotHasBookings)

	deleted, err := service.DeleteSlot(ctx, &models.DeleteSlotRequest{SlotRequest: slotReq(900, subID, "9:00 AM"), Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted.Booked)

	_, err = service.DeleteSlot(ctx, &models.DeleteSlotRequest{SlotRequest: slotReq(900, subID, "9:00 AM"), Force: true})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
