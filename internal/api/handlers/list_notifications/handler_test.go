package list_notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers/mark_notification_read"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	"github.com/m04kA/EffiQ-BookingService/internal/service/notifications"
	"github.com/m04kA/EffiQ-BookingService/internal/service/notifications/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

func TestListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	first, err := store.Notifications().Create(ctx, domain.Notification{UserID: 42, Type: domain.NotificationSlotAvailable, Message: "first"})
	require.NoError(t, err)
	_, err = store.Notifications().Create(ctx, domain.Notification{UserID: 42, Type: domain.NotificationSlotAvailable, Message: "second"})
	require.NoError(t, err)

	service := notifications.NewService(store.Notifications(), logger.NewNop())
	list := NewHandler(service, logger.NewNop())
	markRead := mark_notification_read.NewHandler(service, logger.NewNop())

	get := func(requester int64, query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/42/notifications?"+query, nil)
		req = mux.SetURLVars(req, map[string]string{"userId": "42"})
		req = req.WithContext(middleware.WithUser(req.Context(), requester, domain.RoleUser))
		rec := httptest.NewRecorder()
		list.Handle(rec, req)
		return rec
	}

	rec := get(42, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.NotificationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, "second", resp.Notifications[0].Message)
	assert.Equal(t, 2, resp.Unread)

	firstID := strconv.FormatInt(first.ID, 10)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/"+firstID+"/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notificationId": firstID})
	req = req.WithContext(middleware.WithUser(req.Context(), 42, domain.RoleUser))
	markRec := httptest.NewRecorder()
	markRead.Handle(markRec, req)
	require.Equal(t, http.StatusNoContent, markRec.Code)

	rec = get(42, "unread=true")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "second", resp.Notifications[0].Message)

	assert.Equal(t, http.StatusForbidden, get(7, "").Code)
	assert.Equal(t, http.StatusBadRequest, get(42, "limit=-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(42, "unread=perhaps").Code)
}
