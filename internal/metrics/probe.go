// Package metrics exposes Prometheus metrics for capability probing and the
// HTTP surface.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	probeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emeprobe_probe_total",
		Help: "Total number of DRM capability probes by key system, outcome and error presence",
	}, []string{"key_system", "supported", "errored"})

	probeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emeprobe_probe_duration_seconds",
		Help:    "Latency of single capability probes against the web view bridge",
		Buckets: prometheus.DefBuckets,
	}, []string{"key_system"})
)

// RecordProbe records one capability probe outcome.
func RecordProbe(keySystem string, supported bool, errored bool, elapsed time.Duration) {
	ks := normalizeKeySystemLabel(keySystem)
	probeTotal.WithLabelValues(ks, strconv.FormatBool(supported), strconv.FormatBool(errored)).Inc()
	probeDuration.WithLabelValues(ks).Observe(elapsed.Seconds())
}

// normalizeKeySystemLabel bounds label cardinality to the well-known families.
func normalizeKeySystemLabel(keySystem string) string {
	id := strings.ToLower(strings.TrimSpace(keySystem))
	switch {
	case strings.Contains(id, "playready"):
		return "playready"
	case strings.Contains(id, "widevine"):
		return "widevine"
	case strings.Contains(id, "fairplay"), strings.Contains(id, "fps"):
		return "fairplay"
	default:
		return "unknown"
	}
}
