package middleware

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(logger *slog.Logger, m *HTTPMetrics) http.Handler {
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Use(Logger(logger))
	r.Get("/shopping-lists/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "0" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func TestMetrics_GroupsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := newTestRouter(logger, NewHTTPMetrics(reg))

	for _, path := range []string{"/shopping-lists/1", "/shopping-lists/2", "/shopping-lists/0", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "/shopping-lists/{id}", "status": "200",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "/shopping-lists/{id}", "status": "404",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	got, err = fetchCounterValue(mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "unmatched", "status": "404",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	count, err := fetchHistogramCount(mfs, "http_request_duration_seconds", map[string]string{
		"method": "GET", "route": "/shopping-lists/{id}",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestMetrics_NilRegistererIsNoop(t *testing.T) {
	m := NewHTTPMetrics(nil)
	assert.NotPanics(t, func() {
		m.Observe("GET", "/", 200, 0)
	})

	var nilMetrics *HTTPMetrics
	assert.NotPanics(t, func() {
		nilMetrics.Observe("GET", "/", 200, 0)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := newTestRouter(logger, NewHTTPMetrics(nil))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/shopping-lists/7", nil))
	line := buf.String()
	assert.Contains(t, line, "level=INFO")
	assert.Contains(t, line, "path=/shopping-lists/7")
	assert.Contains(t, line, "route=/shopping-lists/{id}")
	assert.Contains(t, line, "status=200")
	assert.Contains(t, line, "bytes=8")

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.True(t, strings.Contains(buf.String(), "level=ERROR"), buf.String())
	assert.Contains(t, buf.String(), "status=500")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramCount(mfs []*dto.MetricFamily, name string, labels map[string]string) (uint64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleCount(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		v, ok := want[pair.GetName()]
		if !ok {
			continue
		}
		if v != pair.GetValue() {
			return false
		}
		matched++
	}
	return matched == len(want)
}
