package metrics_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lindsaykwardell/http-wrapper/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("test"))

	// Act
	m.ObserveRequest(http.MethodGet, metrics.ViaRoute, http.StatusOK, time.Millisecond)
	m.ObserveRequest(http.MethodGet, metrics.ViaRoute, http.StatusOK, time.Millisecond)
	m.ObserveRequest(http.MethodPost, metrics.ViaNotFound, http.StatusNotFound, time.Millisecond)
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.FrameReceived("malformed")
	m.MessageSent()
	m.MessageDropped("queue_full")

	// Assert
	count, err := testutil.GatherAndCount(reg, "test_requests_total")
	require.Nil(t, err)
	require.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "test_request_duration_seconds")
	require.Nil(t, err)
	require.Equal(t, 2, count)

	families, err := reg.Gather()
	require.Nil(t, err)

	values := make(map[string]float64)
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				values[f.GetName()] += metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[f.GetName()] += metric.GetCounter().GetValue()
			}
		}
	}

	require.Equal(t, float64(3), values["test_requests_total"])
	require.Equal(t, float64(1), values["test_websocket_connections"])
	require.Equal(t, float64(2), values["test_websocket_connections_total"])
	require.Equal(t, float64(1), values["test_websocket_frames_received_total"])
	require.Equal(t, float64(1), values["test_websocket_messages_sent_total"])
	require.Equal(t, float64(1), values["test_websocket_messages_dropped_total"])
}

func TestMetricsObserveRequestUnknownMethods(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))

	// Act
	for i := 0; i < 50; i++ {
		m.ObserveRequest(fmt.Sprintf("X%d", i), metrics.ViaNotFound, http.StatusNotFound, time.Millisecond)
	}
	m.ObserveRequest("get", metrics.ViaNotFound, http.StatusNotFound, time.Millisecond)
	m.ObserveRequest(http.MethodGet, metrics.ViaNotFound, http.StatusNotFound, time.Millisecond)

	// Assert
	count, err := testutil.GatherAndCount(reg, "http_wrapper_requests_total")
	require.Nil(t, err)
	require.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "http_wrapper_request_duration_seconds")
	require.Nil(t, err)
	require.Equal(t, 2, count)

	expected := `
# HELP http_wrapper_requests_total Total number of dispatched HTTP requests
# TYPE http_wrapper_requests_total counter
http_wrapper_requests_total{method="GET",status="404",via="not_found"} 1
http_wrapper_requests_total{method="other",status="404",via="not_found"} 51
`
	require.Nil(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_wrapper_requests_total"))
}

func TestMetricsNil(t *testing.T) {
	var m *metrics.Metrics

	require.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, metrics.ViaRoute, http.StatusOK, time.Second)
		m.ConnectionOpened()
		m.ConnectionClosed()
		m.FrameReceived("dispatched")
		m.MessageSent()
		m.MessageDropped("queue_full")
	})
}

func TestNewDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(metrics.WithRegistry(reg))

	require.Panics(t, func() { metrics.New(metrics.WithRegistry(reg)) })
}
