package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Custom histogram buckets covering SMTP handshakes (hundreds of ms) up to
// the 25s send budget, so the timeout cliff stays visible in quantiles.
var CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

// Registry is the dedicated registry exposed on /api/metrics.
var Registry = prometheus.NewRegistry()

var (
	// HTTP Metrics
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Email channel metrics
	EmailSendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "email_send_duration_seconds",
			Help:    "SMTP send duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"kind", "status"},
	)

	EmailSendTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_send_total",
			Help: "Total number of email send attempts",
		},
		[]string{"kind", "status"},
	)

	// Spreadsheet channel metrics
	SheetsWriteTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheets_write_total",
			Help: "Total number of spreadsheet write attempts",
		},
		[]string{"strategy", "status"},
	)

	SheetsWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sheets_write_duration_seconds",
			Help:    "Spreadsheet write duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"strategy", "status"},
	)

	// Business metrics
	ContactFormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formrelay_contact_form_submissions_total",
			Help: "Total number of contact form submissions",
		},
		[]string{"status"},
	)
)

// Init registers all collectors plus Go runtime and process collectors.
func Init() {
	Registry.MustRegister(
		HTTPRequestDuration,
		HTTPRequestTotal,
		ActiveRequests,
		EmailSendDuration,
		EmailSendTotal,
		SheetsWriteTotal,
		SheetsWriteDuration,
		ContactFormSubmissions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// MeasureDuration returns the elapsed time since start in seconds.
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
