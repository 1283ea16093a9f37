package cancel_waitlist_entry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

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

func (m *engineMock) CancelWait(ctx context.Context, entryID int64, actor allocation.Actor) error {
	return m.Called(ctx, entryID, actor).Error(0)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "removed", code: http.StatusNoContent},
		{name: "unknown entry", err: allocation.ErrEntryNotFound, code: http.StatusNotFound},
		{name: "foreign entry", err: allocation.ErrAccessDenied, code: http.StatusForbidden},
		{name: "storage failure", err: allocation.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &engineMock{}
			engine.On("CancelWait", mock.Anything, int64(11), allocation.Actor{UserID: 42}).Return(tt.err).Once()

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/waitlist/11", nil)
			req = mux.SetURLVars(req, map[string]string{"entryId": "11"})
			req = req.WithContext(middleware.WithUser(req.Context(), 42, domain.RoleUser))
			rec := httptest.NewRecorder()

			NewHandler(engine, logger.NewNop()).Handle(rec, req)
			assert.Equal(t, tt.code, rec.Code)
			engine.AssertExpectations(t)
		})
	}
}
