package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "hotel_finder/internal/adapters/http_server"
	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/adapters/searchproc"
)

// lockedBuffer lets the server goroutine log while the test reads.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) lines() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		var m map[string]any
		if json.Unmarshal([]byte(ln), &m) == nil {
			out = append(out, m)
		}
	}
	return out
}

func captureLogs(t *testing.T) *lockedBuffer {
	t.Helper()
	buf := &lockedBuffer{}
	prev := log.Logger
	log.Logger = zerolog.New(buf)
	t.Cleanup(func() { log.Logger = prev })
	return buf
}

func accessLog(buf *lockedBuffer, route string) map[string]any {
	for _, ln := range buf.lines() {
		if ln["message"] == "http_request" && ln["route"] == route {
			return ln
		}
	}
	return nil
}

func TestTimedOutRequestIsRecordedAs503(t *testing.T) {
	logs := captureLogs(t)
	runner := scriptRunner(t, "exec sleep 5", searchproc.Options{Timeout: 5 * time.Second})
	ts := newServerWith(t, httpserver.Options{Timeout: 300 * time.Millisecond}, runner, false)

	before := testutil.ToFloat64(observability.HTTPRequests.WithLabelValues("/api/semantic-search", "POST", "503"))

	res := do(t, http.MethodPost, ts.URL+"/api/semantic-search", `{"query": "rex"}`, nil)
	_, _ = io.ReadAll(res.Body)
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	require.Eventually(t, func() bool { return accessLog(logs, "/api/semantic-search") != nil }, 2*time.Second, 20*time.Millisecond)
	line := accessLog(logs, "/api/semantic-search")
	assert.Equal(t, 503.0, line["status"])
	assert.Equal(t, "warn", line["level"])

	after := testutil.ToFloat64(observability.HTTPRequests.WithLabelValues("/api/semantic-search", "POST", "503"))
	assert.Equal(t, before+1, after)
}

func TestAccessLogCarriesRequestID(t *testing.T) {
	logs := captureLogs(t)
	ts := newTestServer(t, false)

	res := do(t, http.MethodGet, ts.URL+"/api/properties/h1", "", nil)
	_, _ = io.ReadAll(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.Eventually(t, func() bool { return accessLog(logs, "/api/properties/{id}") != nil }, 2*time.Second, 20*time.Millisecond)
	line := accessLog(logs, "/api/properties/{id}")
	assert.NotEmpty(t, line["request_id"])
	assert.Equal(t, 200.0, line["status"])
	assert.Greater(t, line["bytes"], 0.0)
}
