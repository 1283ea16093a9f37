package top_up_balance

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers/get_account"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts"
	"github.com/m04kA/EffiQ-BookingService/internal/service/accounts/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

func TestTopUpThenRead(t *testing.T) {
	service := accounts.NewService(memory.NewStore().Accounts(), logger.NewNop())
	topUp := NewHandler(service, logger.NewNop())
	read := get_account.NewHandler(service, logger.NewNop())

	post := func(role, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/5/balance", strings.NewReader(body))
		req = mux.SetURLVars(req, map[string]string{"userId": "5"})
		req = req.WithContext(middleware.WithUser(req.Context(), 1, role))
		rec := httptest.NewRecorder()
		topUp.Handle(rec, req)
		return rec
	}
	get := func(requester int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/5/account", nil)
		req = mux.SetURLVars(req, map[string]string{"userId": "5"})
		req = req.WithContext(middleware.WithUser(req.Context(), requester, domain.RoleUser))
		rec := httptest.NewRecorder()
		read.Handle(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, post(domain.RoleUser, `{"amount":10}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(domain.RoleAdmin, `{"amount":0}`).Code)
	require.Equal(t, http.StatusOK, post(domain.RoleAdmin, `{"amount":75}`).Code)

	rec := get(5)
	require.Equal(t, http.StatusOK, rec.Code)
	var acc models.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &acc))
	assert.Equal(t, int64(75), acc.Balance)

	assert.Equal(t, http.StatusForbidden, get(6).Code)
}
