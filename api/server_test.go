package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-ledger/store/memory"
	"github.com/warp/leave-ledger/timeoff"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(memory.New(), HandlerOptions{})
	require.NoError(t, err)
	return h
}

func TestRouter_Health(t *testing.T) {
	r, err := NewRouter(newHandler(t), RouterOptions{})
	require.NoError(t, err)

	rec := do(t, r, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// pingingStore is a memory store whose connection check can be made to fail.
type pingingStore struct {
	*memory.Store
	err error
}

func (s pingingStore) Ping(context.Context) error { return s.err }

func TestRouter_Ready(t *testing.T) {
	tests := []struct {
		name   string
		store  timeoff.Store
		status int
	}{
		{"store without connection", memory.New(), http.StatusOK},
		{"reachable store", pingingStore{Store: memory.New()}, http.StatusOK},
		{"unreachable store", pingingStore{Store: memory.New(), err: errors.New("database is closed")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN: A router over the store
			h, err := NewHandler(tt.store, HandlerOptions{})
			require.NoError(t, err)
			r, err := NewRouter(h, RouterOptions{})
			require.NoError(t, err)

			// WHEN: Checking readiness
			rec := do(t, r, http.MethodGet, "/readyz", nil)

			// THEN: The status follows the store's connection check
			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.Equal(t, "not_ready", decode[ErrorResponse](t, rec).Code)
			}
		})
	}
}

func TestRouter_RateLimitsAPI(t *testing.T) {
	// GIVEN: Two requests per minute
	r, err := NewRouter(newHandler(t), RouterOptions{RateLimit: "2-M"})
	require.NoError(t, err)

	// THEN: The third API call from the same address is refused
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/leave-types", nil).Code)
	}
	rec := do(t, r, http.MethodGet, "/api/leave-types", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

	// AND: Health checks are not limited
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/healthz", nil).Code)
}

func TestRouter_InvalidRateLimit(t *testing.T) {
	_, err := NewRouter(newHandler(t), RouterOptions{RateLimit: "lots"})
	assert.Error(t, err)
}

func TestRouter_CORS(t *testing.T) {
	r, err := NewRouter(newHandler(t), RouterOptions{CORSOrigins: []string{"http://localhost:5173"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/employees", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger_LogsEachRequest(t *testing.T) {
	// GIVEN: A JSON logger writing to a buffer
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r, err := NewRouter(newHandler(t), RouterOptions{Logger: logger})
	require.NoError(t, err)

	// WHEN: Requesting an unknown employee
	do(t, r, http.MethodGet, "/api/employees/ghost", nil)

	// THEN: One line with the request fields
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "http", line[fieldComponent])
	assert.Equal(t, http.MethodGet, line[fieldMethod])
	assert.Equal(t, "/api/employees/ghost", line[fieldPath])
	assert.EqualValues(t, http.StatusNotFound, line[fieldStatusCode])
	assert.NotEmpty(t, line[fieldRequestID])
}

func TestNewHandler_RejectsUnknownRollover(t *testing.T) {
	_, err := NewHandler(memory.New(), HandlerOptions{Rollover: timeoff.RolloverScope("sometimes")})
	assert.Error(t, err)
}
