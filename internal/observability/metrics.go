package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resetctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resetctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	commandsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resetctl",
			Subsystem: "runctl",
			Name:      "commands_decoded_total",
			Help:      "Valid-strobed stream samples decoded, by resulting run state.",
		},
		[]string{"state"},
	)
	invalidCommands = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resetctl",
			Subsystem: "runctl",
			Name:      "commands_invalid_total",
			Help:      "Stream samples whose code was not one-hot.",
		},
	)
	resetTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resetctl",
			Subsystem: "runctl",
			Name:      "reset_transitions_total",
			Help:      "Reset line level changes, by new level.",
		},
		[]string{"level"},
	)
	handshakeRoundTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resetctl",
			Subsystem: "cdc",
			Name:      "handshake_roundtrips_total",
			Help:      "Completed ready/ack round trips, by link.",
		},
		[]string{"link"},
	)
	domainTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resetctl",
			Subsystem: "domain",
			Name:      "ticks_total",
			Help:      "Free-running domain ticks, by domain.",
		},
		[]string{"domain"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			commandsDecoded,
			invalidCommands,
			resetTransitions,
			handshakeRoundTrips,
			domainTicks,
		)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, code).Inc()
	httpDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordCommandDecoded(state string) {
	commandsDecoded.WithLabelValues(state).Inc()
}

func RecordInvalidCommand() {
	invalidCommands.Inc()
}

func RecordResetTransition(level bool) {
	resetTransitions.WithLabelValues(strconv.FormatBool(level)).Inc()
}

func RecordHandshakeRoundTrip(link string) {
	handshakeRoundTrips.WithLabelValues(link).Inc()
}

func RecordDomainTick(name string) {
	domainTicks.WithLabelValues(name).Inc()
}
