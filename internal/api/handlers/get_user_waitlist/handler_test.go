package get_user_waitlist

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
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) GetUserWaitlist(ctx context.Context, requesterID, userID int64, isAdmin bool) (*models.WaitlistListResponse, error) {
	args := m.Called(ctx, requesterID, userID, isAdmin)
	res, _ := args.Get(0).(*models.WaitlistListResponse)
	return res, args.Error(1)
}

func doRequest(h *Handler, userID string, requester int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/waitlist", nil)
	req = mux.SetURLVars(req, map[string]string{"userId": userID})
	req = req.WithContext(middleware.WithUser(req.Context(), requester, domain.RoleUser))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &serviceMock{}
	svc.On("GetUserWaitlist", mock.Anything, int64(42), int64(42), false).
		Return(&models.WaitlistListResponse{Entries: []models.WaitlistEntryResponse{
			{ID: 7, DesiredTime: "9:00 AM", Position: 2},
		}}, nil).Once()
	svc.On("GetUserWaitlist", mock.Anything, int64(1), int64(42), false).
		Return(nil, bookings.ErrAccessDenied).Once()
	svc.On("GetUserWaitlist", mock.Anything, int64(43), int64(43), false).
		Return(nil, bookings.ErrInternal).Once()

	h := NewHandler(svc, logger.NewNop())

	rec := doRequest(h, "42", 42)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.WaitlistListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 2, resp.Entries[0].Position)

	assert.Equal(t, http.StatusForbidden, doRequest(h, "42", 1).Code)
	assert.Equal(t, http.StatusInternalServerError, doRequest(h, "43", 43).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, "abc", 42).Code)
	svc.AssertExpectations(t)
}
