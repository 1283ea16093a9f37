package create_service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/memory"
	"github.com/m04kA/EffiQ-BookingService/internal/service/catalog"
	"github.com/m04kA/EffiQ-BookingService/internal/service/catalog/models"
	"github.com/m04kA/EffiQ-BookingService/pkg/logger"
)

func doRequest(h *Handler, body string, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/services", strings.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), 900, role))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	store := memory.NewStore()
	h := NewHandler(catalog.NewService(store.Catalog(), logger.NewNop()), logger.NewNop())

	rec := doRequest(h, `{"name":"City Hospital","category":"hospital","adminIds":[5]}`, domain.RoleAdmin)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.ServiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "City Hospital", resp.Name)
	assert.ElementsMatch(t, []int64{5, 900}, resp.AdminIDs)

	assert.Equal(t, http.StatusForbidden, doRequest(h, `{"name":"Bank"}`, domain.RoleUser).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, `{"name":"   "}`, domain.RoleAdmin).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(h, `{"title":"Bank"}`, domain.RoleAdmin).Code)
}
