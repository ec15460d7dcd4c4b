// Package metrics holds the Prometheus collectors for authentication
// outcomes. Collectors are package level so services can record without
// holding a registry; Register wires them into the one served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Result labels.
const (
	ResultSuccess         = "success"
	ResultValidationError = "validation_error"
	ResultConflict        = "conflict"
	ResultNotFound        = "not_found"
	ResultInvalidPassword = "invalid_password"
	ResultValid           = "valid"
	ResultExpired         = "expired"
	ResultInvalid         = "invalid"
	ResultMissing         = "missing"
	ResultError           = "error"
)

var Registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of registration attempts by result",
	},
	[]string{"result"},
)

var Logins = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts by result",
	},
	[]string{"result"},
)

var TokenVerifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_token_verifications_total",
		Help: "Total number of token verifications by token kind and result",
	},
	[]string{"kind", "result"},
)

var TokenRefreshes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_token_refreshes_total",
		Help: "Total number of access token refreshes by result",
	},
	[]string{"result"},
)

var PasswordHashDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "auth_password_hash_duration_seconds",
		Help:    "Time spent hashing or comparing passwords",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	},
	[]string{"op"},
)

// NewRegistry returns a registry with the Go and process collectors plus
// every auth collector.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Register(reg)
	return reg
}

// Register panics if a collector is already registered with reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(Registrations)
	reg.MustRegister(Logins)
	reg.MustRegister(TokenVerifications)
	reg.MustRegister(TokenRefreshes)
	reg.MustRegister(PasswordHashDuration)
}

func RecordRegistration(result string) {
	Registrations.WithLabelValues(result).Inc()
}

func RecordLogin(result string) {
	Logins.WithLabelValues(result).Inc()
}

func RecordTokenVerification(kind string, result string) {
	TokenVerifications.WithLabelValues(kind, result).Inc()
}

func RecordTokenRefresh(result string) {
	TokenRefreshes.WithLabelValues(result).Inc()
}

// ObservePasswordHash is meant to be deferred with the start time.
func ObservePasswordHash(op string, started time.Time) {
	PasswordHashDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}
