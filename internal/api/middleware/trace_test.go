package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hivelog/hivelog-api/internal/api/shared"
	"github.com/hivelog/hivelog-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	log, buf := logger.NewTestLogger()

	var seenTrace string
	handler := Trace(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusAccepted)
	}))

	t.Run("generates trace id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Len(t, seenTrace, 32)
		assert.Equal(t, seenTrace, rec.Header().Get(shared.TraceIDHeader))

		entries := buf.Entries(t)
		require.NotEmpty(t, entries)
		assert.Equal(t, seenTrace, entries[0]["trace_id"])
	})

	t.Run("reuses caller trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(shared.TraceIDHeader, "caller-trace-0001")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "caller-trace-0001", seenTrace)
	})

	t.Run("replaces malformed caller trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(shared.TraceIDHeader, "bad id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEqual(t, "bad id", seenTrace)
		assert.Len(t, seenTrace, 32)
	})
}
