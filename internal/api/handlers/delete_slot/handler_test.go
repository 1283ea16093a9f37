package delete_slot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	"github.com/m04kA/EffiQ-BookingService/internal/service/slots"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(1, true, 7, url.Values{"date": {"2026-05-10"}, "time": {"9:00 AM"}, "force": {"true"}})
	require.NoError(t, err)
	assert.True(t, req.Force)
	assert.Equal(t, "9:00 AM", req.Time)
	assert.Equal(t, int64(7), req.SubServiceID)

	_, err = ToServiceRequest(1, true, 7, url.Values{"time": {"9:00 AM"}})
	assert.Error(t, err)
	_, err = ToServiceRequest(1, true, 7, url.Values{"date": {"2026-05-10"}, "time": {"9:00 AM"}, "force": {"maybe"}})
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc, err := store.Catalog().CreateService(ctx, domain.Service{Name: "Clinic", AdminIDs: []int64{900}})
	require.NoError(t, err)
	sub, err := store.Catalog().CreateSubService(ctx, domain.SubService{ServiceID: svc.ID, Name: "OPD"})
	require.NoError(t, err)
	key := domain.SlotKey{SubServiceID: sub.ID, Date: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), Time: "9:00 AM"}
	_, err = store.Slots().Add(ctx, key, 3)
	require.NoError(t, err)
	_, err = store.Slots().Reserve(ctx, key)
	require.NoError(t, err)

	h := NewHandler(slots.NewService(store.Slots(), store.Catalog(), nil, logger.NewNop()), logger.NewNop())
	subID := strconv.FormatInt(sub.ID, 10)
	call := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/sub-services/"+subID+"/slots?"+query, nil)
		req = mux.SetURLVars(req, map[string]string{"subServiceId": subID})
		req = req.WithContext(middleware.WithUser(req.Context(), 900, domain.RoleUser))
		rec := httptest.NewRecorder()
		h.Handle(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusConflict, call("date=2026-05-10&time=9%3A00+AM").Code)
	assert.Equal(t, http.StatusOK, call("date=2026-05-10&time=9%3A00+AM&force=true").Code)
	assert.Equal(t, http.StatusNotFound, call("date=2026-05-10&time=9%3A00+AM&force=true").Code)
	assert.Equal(t, http.StatusBadRequest, call("time=9%3A00+AM").Code)
}
