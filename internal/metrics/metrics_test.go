package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.SaleCompleted(4200)
	m.SaleCompleted(800)
	m.LineCommitted(3 * time.Millisecond)
	m.LineRejected(ReasonInsufficientStock)
	m.LineRejected(ReasonInsufficientStock)
	m.LineRejected(ReasonReference)
	m.Restocked()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.salesCompleted))
	assert.Equal(t, float64(5000), testutil.ToFloat64(m.revenueCents))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.linesCommitted))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.linesRejected.WithLabelValues(ReasonInsufficientStock)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.linesRejected.WithLabelValues(ReasonReference)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.restocks))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SaleCompleted(100)
		m.LineCommitted(time.Millisecond)
		m.LineRejected(ReasonError)
		m.Restocked()
		m.HTTPRequest(http.MethodGet, "/api/items", http.StatusOK)
	})
}

func TestMux(t *testing.T) {
	m := New()
	m.HTTPRequest(http.MethodPost, "/api/sales/checkout", http.StatusConflict)

	health := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})
	server := httptest.NewServer(m.NewMux(health))
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `thriftstore_http_requests_total{method="POST",route="/api/sales/checkout",status="409"} 1`)

	resp, err = http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "healthy", string(body))
}
