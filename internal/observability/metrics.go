package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK       = "ok"
	OutcomeBadInput = "bad_input"
	OutcomeDecode   = "decode_error"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bitsctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bitsctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	decodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bitsctl",
			Subsystem: "decode",
			Name:      "transmissions_total",
			Help:      "Decoded transmissions by outcome.",
		},
		[]string{"outcome"},
	)
	decodeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bitsctl",
			Subsystem: "decode",
			Name:      "duration_seconds",
			Help:      "Time spent decoding and evaluating one transmission.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)
	decodePackets = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bitsctl",
			Subsystem: "decode",
			Name:      "packets",
			Help:      "Packets per successfully decoded transmission.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodeTotal, decodeDuration, decodePackets)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one transmission; packets is only observed on success.
func RecordDecode(outcome string, packets int, duration time.Duration) {
	RegisterMetrics()
	decodeTotal.WithLabelValues(outcome).Inc()
	decodeDuration.Observe(duration.Seconds())
	if outcome == OutcomeOK {
		decodePackets.Observe(float64(packets))
	}
}
