package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Entropy estimation metrics
	estimatesTotal     *prometheus.CounterVec
	bytesAnalyzedTotal prometheus.Counter
	entropyObserved    prometheus.Histogram

	// Scan metrics
	scansTotal   *prometheus.CounterVec
	scanDuration prometheus.Histogram
	filesScanned prometheus.Counter

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytegauge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bytegauge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bytegauge_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		estimatesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytegauge_estimates_total",
				Help: "Total number of entropy estimates",
			},
			[]string{"source", "status"},
		),

		bytesAnalyzedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bytegauge_bytes_analyzed_total",
				Help: "Total number of bytes run through the estimator",
			},
		),

		entropyObserved: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bytegauge_entropy_bits_per_byte",
				Help:    "Distribution of observed entropy estimates in bits per byte",
				Buckets: prometheus.LinearBuckets(0, 1, 9),
			},
		),

		scansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytegauge_scans_total",
				Help: "Total number of directory scans",
			},
			[]string{"status"},
		),

		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bytegauge_scan_duration_seconds",
				Help:    "Directory scan duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		filesScanned: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bytegauge_files_scanned_total",
				Help: "Total number of files scanned",
			},
		),

		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytegauge_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytegauge_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordEstimate records an entropy estimate and its input size
func (m *Metrics) RecordEstimate(source string, success bool, bytes int64, entropy float64) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.estimatesTotal.WithLabelValues(source, status).Inc()
	if success {
		m.bytesAnalyzedTotal.Add(float64(bytes))
		m.entropyObserved.Observe(entropy)
	}
}

// RecordScan records a directory scan
func (m *Metrics) RecordScan(success bool, files int, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.scansTotal.WithLabelValues(status).Inc()
	if success {
		m.scanDuration.Observe(duration.Seconds())
		m.filesScanned.Add(float64(files))
	}
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the original handler
		handler(rw, r)

		// Record metrics
		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if API key is present
			apiKey := r.Header.Get("X-API-Key")
			hasAPIKey := apiKey != ""

			// Call the auth middleware
			next(h).ServeHTTP(w, r)

			// Record auth metrics based on response status
			if rw, ok := w.(*responseWriter); ok {
				success := rw.statusCode != http.StatusUnauthorized
				if hasAPIKey {
					m.RecordAuthRequest(success)
				}
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
