// Package metrics keeps the Prometheus counters of the capture pipeline.
package metrics

import (
	"errors"
	"net/http"

	"github.com/pion/cameracore/pkg/frame"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cameracore"

// Error kinds reported by ConversionErrors.
const (
	KindTruncated  = "truncated"
	KindLockFailed = "lock_failed"
	KindOther      = "other"
)

var (
	registry = prometheus.NewRegistry()

	Frames = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_total",
		Help:      "Frames delivered to listeners.",
	}, []string{"source"})

	ConversionErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversion_errors_total",
		Help:      "Frames that could not be read or converted, by kind.",
	}, []string{"kind"})
)

func init() {
	registry.MustRegister(Frames, ConversionErrors)
}

// Kind classifies err into one of the Kind constants.
func Kind(err error) string {
	switch {
	case errors.Is(err, frame.ErrTruncated):
		return KindTruncated
	case errors.Is(err, frame.ErrLockFailed):
		return KindLockFailed
	default:
		return KindOther
	}
}

// ObserveError counts err under its kind.
func ObserveError(err error) {
	ConversionErrors.WithLabelValues(Kind(err)).Inc()
}

// Handler serves the counters in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
