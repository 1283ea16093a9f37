package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	var (
		gotID    int64
		gotAdmin bool
	)
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		gotAdmin = IsAdmin(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name      string
		userID    string
		role      string
		wantCode  int
		wantID    int64
		wantAdmin bool
	}{
		{name: "missing", wantCode: http.StatusUnauthorized},
		{name: "not a number", userID: "abc", wantCode: http.StatusUnauthorized},
		{name: "negative", userID: "-1", wantCode: http.StatusUnauthorized},
		{name: "user", userID: "42", wantCode: http.StatusNoContent, wantID: 42},
		{name: "admin", userID: "7", role: "Admin", wantCode: http.StatusNoContent, wantID: 7, wantAdmin: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotAdmin = 0, false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantID, gotID)
			assert.Equal(t, tt.wantAdmin, gotAdmin)
		})
	}
}

func TestRateLimiter_PerUser(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("1"))
	assert.Equal(t, http.StatusOK, call("1"))
	assert.Equal(t, http.StatusTooManyRequests, call("1"))
	assert.Equal(t, http.StatusOK, call("2"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("1"))
}

func TestRateLimiter_EvictsIdleVisitorsPeriodically(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	require.True(t, rl.allow("user:1"))
	require.True(t, rl.allow("user:2"))

	// Между просмотрами карта не перебирается
	now = now.Add(idleTTL + time.Second)
	rl.lastSweep = now.Add(-sweepInterval / 2)
	require.True(t, rl.allow("user:3"))
	assert.Len(t, rl.visitors, 3)

	now = now.Add(sweepInterval)
	require.True(t, rl.allow("user:3"))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "user:3")
}

type metricsRecorder struct {
	mu    sync.Mutex
	paths []string
	codes []int
}

func (m *metricsRecorder) RecordHTTPRequest(method, path string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, method+" "+path)
	m.codes = append(m.codes, status)
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &metricsRecorder{}
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/15", nil))

	require.Len(t, m.paths, 1)
	assert.Equal(t, "GET /bookings/{bookingId}", m.paths[0])
	assert.Equal(t, http.StatusNotFound, m.codes[0])
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "4f7c1a2e-9b51-4c39-8d0e-2f5b1f9a6c11")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "4f7c1a2e-9b51-4c39-8d0e-2f5b1f9a6c11", seen)
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
