package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	getAvailableSlots "github.com/m04kA/EffiQ-BookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
	"github.com/m04kA/EffiQ-BookingService/pkg/types"
)

func TestHandle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	svc, err := store.Catalog().CreateService(ctx, domain.Service{Name: "Bank"})
	require.NoError(t, err)
	sub, err := store.Catalog().CreateSubService(ctx, domain.SubService{ServiceID: svc.ID, Name: "Loans", TokenFee: 4})
	require.NoError(t, err)
	for _, label := range []string{"2:00 PM", "9:00 AM"} {
		_, err := store.Slots().Add(ctx, domain.SlotKey{SubServiceID: sub.ID, Date: day, Time: types.MustTimeLabel(label)}, 3)
		require.NoError(t, err)
	}
	_, err = store.Slots().Reserve(ctx, domain.SlotKey{SubServiceID: sub.ID, Date: day, Time: "2:00 PM"})
	require.NoError(t, err)

	h := NewHandler(getAvailableSlots.NewUseCase(store.Slots(), store.Catalog(), logger.NewNop()), logger.NewNop())
	call := func(subID, query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sub-services/"+subID+"/slots?"+query, nil)
		req = mux.SetURLVars(req, map[string]string{"subServiceId": subID})
		rec := httptest.NewRecorder()
		h.Handle(rec, req)
		return rec
	}
	subID := strconv.FormatInt(sub.ID, 10)

	rec := call(subID, "date=2026-05-10")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "9:00 AM", resp.Slots[0].Time)
	assert.Equal(t, "2:00 PM", resp.Slots[1].Time)
	assert.Equal(t, Availability{Capacity: 3, Booked: 1}, resp.Availability["2:00 PM"])
	assert.Equal(t, 2, resp.Slots[1].Available)
	assert.Equal(t, int64(4), resp.TokenFee)

	assert.Equal(t, http.StatusBadRequest, call(subID, "").Code)
	assert.Equal(t, http.StatusBadRequest, call(subID, "date=tomorrow").Code)
	assert.Equal(t, http.StatusNotFound, call("999", "date=2026-05-10").Code)
}
