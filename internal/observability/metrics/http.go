package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	qaRequestsTotal     *prometheus.CounterVec
	qaRetrievalHitTotal *prometheus.CounterVec
	qaNoContextTotal    *prometheus.CounterVec
	qaRetrievedSources  *prometheus.HistogramVec
	qaDuration          *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddroom",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ddroom",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ddroom",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	qaRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddroom",
			Subsystem: "qa",
			Name:      "requests_total",
			Help:      "Total successful QA requests.",
		},
		[]string{"service", "endpoint"},
	)
	qaRetrievalHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddroom",
			Subsystem: "qa",
			Name:      "retrieval_hit_total",
			Help:      "Total QA requests with at least one retrieved source.",
		},
		[]string{"service", "endpoint"},
	)
	qaNoContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ddroom",
			Subsystem: "qa",
			Name:      "no_context_total",
			Help:      "Total QA requests without retrieved sources.",
		},
		[]string{"service", "endpoint"},
	)
	qaRetrievedSources := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ddroom",
			Subsystem: "qa",
			Name:      "retrieved_sources",
			Help:      "Distribution of cited sources per successful QA request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	qaDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ddroom",
			Subsystem: "qa",
			Name:      "duration_seconds",
			Help:      "QA execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		qaRequestsTotal,
		qaRetrievalHitTotal,
		qaNoContextTotal,
		qaRetrievedSources,
		qaDuration,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		qaRequestsTotal:     qaRequestsTotal,
		qaRetrievalHitTotal: qaRetrievalHitTotal,
		qaNoContextTotal:    qaNoContextTotal,
		qaRetrievedSources:  qaRetrievedSources,
		qaDuration:          qaDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/documents/"):
		return "/api/documents/{document_id}"
	case strings.HasPrefix(path, "/api/checklist/"):
		return "/api/checklist/{item_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordQAObservation(service, endpoint string, sourceCount int, duration time.Duration) {
	m.qaRequestsTotal.WithLabelValues(service, endpoint).Inc()
	m.qaRetrievedSources.WithLabelValues(service, endpoint).Observe(float64(sourceCount))
	m.qaDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())

	if sourceCount > 0 {
		m.qaRetrievalHitTotal.WithLabelValues(service, endpoint).Inc()
		return
	}
	m.qaNoContextTotal.WithLabelValues(service, endpoint).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
