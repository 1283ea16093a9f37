package emergency_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	emergencyBooking "github.com/m04kA/EffiQ-BookingService/internal/usecase/emergency_booking"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

func TestHandle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc, err := store.Catalog().CreateService(ctx, domain.Service{Name: "City Clinic"})
	require.NoError(t, err)
	sub, err := store.Catalog().CreateSubService(ctx, domain.SubService{ServiceID: svc.ID, Name: "Trauma"})
	require.NoError(t, err)
	_, err = store.Accounts().Ensure(ctx, 1)
	require.NoError(t, err)
	_, err = store.Accounts().Credit(ctx, 1, 120)
	require.NoError(t, err)

	uc := emergencyBooking.NewUseCase(store.Bookings(), store.Accounts(), store.Catalog(), store.TxManager(),
		emergencyBooking.DefaultConfig(), logger.NewNop())
	h := NewHandler(uc, logger.NewNop())

	call := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/emergency-bookings", strings.NewReader(body))
		req = req.WithContext(middleware.WithUser(req.Context(), 1, domain.RoleUser))
		rec := httptest.NewRecorder()
		h.Handle(rec, req)
		return rec
	}
	subID := strconv.FormatInt(sub.ID, 10)

	rec := call(`{"subServiceId":` + subID + `,"details":"fever"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp EmergencyBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.ReferenceNumber, "EMG-"))
	assert.Equal(t, int64(20), resp.Balance)
	assert.Equal(t, "self", resp.BookingFor)

	assert.Equal(t, http.StatusPaymentRequired, call(`{"subServiceId":`+subID+`}`).Code)

	rec = call(`{"subServiceId":` + subID + `,"bookingFor":"other"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.TokenFee)

	assert.Equal(t, http.StatusNotFound, call(`{"subServiceId":999}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(`{"subServiceId":`+subID+`,"bookingFor":"neighbour"}`).Code)
}
