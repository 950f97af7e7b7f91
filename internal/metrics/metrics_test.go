package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordRequest(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/predict", "POST", "200"))
	RecordRequest("/predict", "POST", 200, 0.05)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/predict", "POST", "200"))

	assert.Equal(t, before+1, after)
}

func TestInFlightGauge(t *testing.T) {
	InitRegistry()

	base := testutil.ToFloat64(HTTPRequestsInFlight)
	RequestStarted()
	RequestStarted()
	assert.Equal(t, base+2, testutil.ToFloat64(HTTPRequestsInFlight))

	RequestFinished()
	RequestFinished()
	assert.Equal(t, base, testutil.ToFloat64(HTTPRequestsInFlight))
}

func TestWebSocketMetrics(t *testing.T) {
	InitRegistry()

	base := testutil.ToFloat64(WebSocketConnections)
	WebSocketOpened()
	assert.Equal(t, base+1, testutil.ToFloat64(WebSocketConnections))
	WebSocketClosed()
	assert.Equal(t, base, testutil.ToFloat64(WebSocketConnections))

	msgs := testutil.ToFloat64(WebSocketMessagesTotal)
	RecordWebSocketMessage()
	assert.Equal(t, msgs+1, testutil.ToFloat64(WebSocketMessagesTotal))
}

func TestSetModelsLoaded(t *testing.T) {
	tests := []struct {
		name   string
		loaded bool
		want   float64
	}{
		{name: "loaded", loaded: true, want: 1},
		{name: "not loaded", loaded: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetModelsLoaded(tt.loaded)
			assert.Equal(t, tt.want, testutil.ToFloat64(ModelsLoaded))
		})
	}
}

func TestHandler(t *testing.T) {
	InitRegistry()
	RecordRequest("/chat", "POST", 502, 0.2)

	handler := Handler()
	assert.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "athlete_guard_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
