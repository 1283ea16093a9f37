package get_service_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) GetServiceBookings(ctx context.Context, req *models.GetServiceBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*models.BookingListResponse)
	return res, args.Error(1)
}

func TestToServiceRequest(t *testing.T) {
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	req, err := ToServiceRequest(3, 42, false, url.Values{"date": {"2026-05-10"}, "subServiceId": {"7"}, "status": {"cancelled"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), req.ServiceID)
	require.NotNil(t, req.SubServiceID)
	assert.Equal(t, int64(7), *req.SubServiceID)
	assert.Equal(t, day, *req.StartDate)
	assert.Equal(t, day, *req.EndDate)
	assert.Equal(t, "cancelled", *req.Status)

	req, err = ToServiceRequest(3, 42, true, url.Values{"startDate": {"2026-05-10"}})
	require.NoError(t, err)
	assert.True(t, req.IsAdmin)
	assert.Equal(t, day, *req.StartDate)
	assert.Nil(t, req.EndDate)

	_, err = ToServiceRequest(3, 42, false, url.Values{"subServiceId": {"x"}})
	assert.Error(t, err)
	_, err = ToServiceRequest(3, 42, false, url.Values{"endDate": {"10/05/2026"}})
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "ok", code: http.StatusOK},
		{name: "service not found", err: bookings.ErrServiceNotFound, code: http.StatusNotFound},
		{name: "not a service admin", err: bookings.ErrAccessDenied, code: http.StatusForbidden},
		{name: "bad filter", err: bookings.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "internal", err: bookings.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &serviceMock{}
			var resp *models.BookingListResponse
			if tt.err == nil {
				resp = &models.BookingListResponse{Bookings: []models.BookingResponse{}}
			}
			svc.On("GetServiceBookings", mock.Anything, mock.Anything).Return(resp, tt.err).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/services/3/bookings", nil)
			req = mux.SetURLVars(req, map[string]string{"serviceId": "3"})
			req = req.WithContext(middleware.WithUser(req.Context(), 42, domain.RoleUser))
			rec := httptest.NewRecorder()

			NewHandler(svc, logger.NewNop()).Handle(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
