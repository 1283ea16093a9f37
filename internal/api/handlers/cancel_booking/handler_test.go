package cancel_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

type engineMock struct {
	mock.Mock
}

func (m *engineMock) CancelBooking(ctx context.Context, bookingID int64, actor allocation.Actor) (*allocation.CancelResult, error) {
	args := m.Called(ctx, bookingID, actor)
	res, _ := args.Get(0).(*allocation.CancelResult)
	return res, args.Error(1)
}

func doRequest(h *Handler, bookingID string, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	req = req.WithContext(middleware.WithUser(req.Context(), 42, role))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		result *allocation.CancelResult
		err    error
		code   int
	}{
		{
			name: "cancelled",
			result: &allocation.CancelResult{
				Status:   domain.CancelOk,
				Booking:  &domain.Booking{ID: 5, UserID: 42, Status: domain.StatusCancelled},
				Notified: 3,
			},
			code: http.StatusOK,
		},
		{name: "not found", result: &allocation.CancelResult{Status: domain.CancelNotFound}, code: http.StatusNotFound},
		{name: "already cancelled", result: &allocation.CancelResult{Status: domain.CancelAlreadyCancelled}, code: http.StatusOK},
		{name: "access denied", err: allocation.ErrAccessDenied, code: http.StatusForbidden},
		{name: "internal", err: allocation.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &engineMock{}
			engine.On("CancelBooking", mock.Anything, int64(5), allocation.Actor{UserID: 42}).
				Return(tt.result, tt.err).Once()

			rec := doRequest(NewHandler(engine, logger.NewNop()), "5", domain.RoleUser)
			assert.Equal(t, tt.code, rec.Code)
			engine.AssertExpectations(t)
		})
	}
}

func TestHandle_ResponseBody(t *testing.T) {
	engine := &engineMock{}
	engine.On("CancelBooking", mock.Anything, int64(5), allocation.Actor{UserID: 42, Admin: true}).
		Return(&allocation.CancelResult{
			Status:   domain.CancelOk,
			Booking:  &domain.Booking{ID: 5, UserID: 7, Status: domain.StatusCancelled},
			Notified: 2,
		}, nil).Once()

	rec := doRequest(NewHandler(engine, logger.NewNop()), "5", domain.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CancelBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Notified)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "cancelled", resp.Booking.Status)
}

func TestHandle_RepeatedCancelIsNoOp(t *testing.T) {
	engine := &engineMock{}
	engine.On("CancelBooking", mock.Anything, int64(5), allocation.Actor{UserID: 42}).
		Return(&allocation.CancelResult{
			Status:  domain.CancelAlreadyCancelled,
			Booking: &domain.Booking{ID: 5, UserID: 42, Status: domain.StatusCancelled},
		}, nil).Once()

	rec := doRequest(NewHandler(engine, logger.NewNop()), "5", domain.RoleUser)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CancelBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "already_cancelled", resp.Status)
	assert.Equal(t, 0, resp.Notified)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "cancelled", resp.Booking.Status)
}

func TestHandle_InvalidID(t *testing.T) {
	engine := &engineMock{}
	rec := doRequest(NewHandler(engine, logger.NewNop()), "abc", domain.RoleUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	engine.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything)
}
