package reschedule_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

type engineMock struct {
	mock.Mock
}

func (m *engineMock) RescheduleBooking(ctx context.Context, req allocation.RescheduleRequest) (*allocation.RescheduleResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*allocation.RescheduleResult)
	return res, args.Error(1)
}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/9/reschedule", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": "9"})
	req = req.WithContext(middleware.WithUser(req.Context(), 42, domain.RoleUser))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	expected := allocation.RescheduleRequest{
		BookingID: 9,
		Actor:     allocation.Actor{UserID: 42},
		NewDate:   time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC),
		NewTime:   "10:00 AM",
	}

	tests := []struct {
		name   string
		result *allocation.RescheduleResult
		err    error
		code   int
	}{
		{
			name:   "moved",
			result: &allocation.RescheduleResult{Status: domain.RescheduleOk, Booking: &domain.Booking{ID: 9, Status: domain.StatusConfirmed}},
			code:   http.StatusOK,
		},
		{name: "slot full", result: &allocation.RescheduleResult{Status: domain.RescheduleSlotFull}, code: http.StatusConflict},
		{name: "booking not found", result: &allocation.RescheduleResult{Status: domain.RescheduleNotFound}, code: http.StatusNotFound},
		{name: "slot not found", err: allocation.ErrSlotNotFound, code: http.StatusNotFound},
		{name: "not confirmed", err: allocation.ErrNotConfirmed, code: http.StatusConflict},
		{name: "emergency booking", err: allocation.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "access denied", err: allocation.ErrAccessDenied, code: http.StatusForbidden},
		{name: "internal", err: allocation.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &engineMock{}
			engine.On("RescheduleBooking", mock.Anything, expected).Return(tt.result, tt.err).Once()

			rec := doRequest(NewHandler(engine, logger.NewNop()), `{"date":"2026-05-11","time":"10:00 am"}`)
			assert.Equal(t, tt.code, rec.Code)
			engine.AssertExpectations(t)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	engine := &engineMock{}
	h := NewHandler(engine, logger.NewNop())

	assert.Equal(t, http.StatusBadRequest, doRequest(h, `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, `{"time":"10:00 AM"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, `{"date":"2026-05-11","time":"25:00"}`).Code)
	engine.AssertNotCalled(t, "RescheduleBooking", mock.Anything, mock.Anything)
}
