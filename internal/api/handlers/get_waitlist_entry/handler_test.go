package get_waitlist_entry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
	"github.com/m04kA/EffiQ-BookingService/internal/service/bookings/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

type engineMock struct {
	mock.Mock
}

func (m *engineMock) GetWaitlistStatus(ctx context.Context, entryID int64, actor allocation.Actor) (*allocation.WaitlistStatus, error) {
	args := m.Called(ctx, entryID, actor)
	res, _ := args.Get(0).(*allocation.WaitlistStatus)
	return res, args.Error(1)
}

func call(h *Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/waitlist/11", nil)
	req = mux.SetURLVars(req, map[string]string{"entryId": "11"})
	req = req.WithContext(middleware.WithUser(req.Context(), 42, domain.RoleAdmin))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	engine := &engineMock{}
	engine.On("GetWaitlistStatus", mock.Anything, int64(11), allocation.Actor{UserID: 42, Admin: true}).
		Return(&allocation.WaitlistStatus{
			Entry: &domain.WaitlistEntry{
				ID:           11,
				UserID:       5,
				SubServiceID: 3,
				Date:         time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
				DesiredTime:  "9:00 AM",
			},
			Position: 2,
		}, nil).Once()

	rec := call(NewHandler(engine, logger.NewNop()))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.WaitlistEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Position)
	assert.Equal(t, "9:00 AM", resp.DesiredTime)
	assert.Equal(t, "2026-05-10", resp.Date)
}

func TestHandle_NotFound(t *testing.T) {
	engine := &engineMock{}
	engine.On("GetWaitlistStatus", mock.Anything, int64(11), mock.Anything).Return(nil, allocation.ErrEntryNotFound).Once()
	assert.Equal(t, http.StatusNotFound, call(NewHandler(engine, logger.NewNop())).Code)
}
