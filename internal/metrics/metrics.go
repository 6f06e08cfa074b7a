package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leadsvc"

var (
	once sync.Once

	signups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Count of signup attempts by result.",
		},
		[]string{"result"},
	)

	verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_verifications_total",
			Help:      "Count of e-mail verification attempts by result.",
		},
		[]string{"result"},
	)

	codesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_codes_sent_total",
			Help:      "Count of verification codes issued by delivery status.",
		},
		[]string{"status"},
	)

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	sessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Count of session lifecycle events (created, revoked).",
		},
		[]string{"event"},
	)

	httpRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(signups, verifications, codesSent, bookingCreated, sessions, httpRequests)
	})
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncSignup(result string) {
	signups.WithLabelValues(result).Inc()
}

func IncVerification(result string) {
	verifications.WithLabelValues(result).Inc()
}

func IncCodeSent(status string) {
	codesSent.WithLabelValues(status).Inc()
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func ObserveRequest(method, route, code string, seconds float64) {
	httpRequests.WithLabelValues(method, route, code).Observe(seconds)
}

func IncSessions(event string, n int) {
	if n > 0 {
		sessions.WithLabelValues(event).Add(float64(n))
	}
}
