// Package telemetry records Prometheus metrics and OpenTelemetry spans for
// validation runs.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	apperrors "github.com/agbru/sigvalid/internal/errors"
)

const namespace = "sigvalid"

// Metrics holds the Prometheus collectors of one process. Each instance owns
// its registry, so tests and embedders never collide on global registration.
type Metrics struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	verdictsTotal *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	runDuration   prometheus.Histogram
	channels      prometheus.Gauge
}

// NewMetrics creates and registers the validator collectors together with
// the Go runtime collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Validation runs by terminal outcome.",
		}, []string{"outcome"}),
		verdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Successful validation runs by verdict.",
		}, []string{"verdict"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each validation stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"stage"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of validation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		channels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channels_compared",
			Help:      "Number of channels compared by the last successful run.",
		}),
	}
	reg.MustRegister(
		m.runsTotal,
		m.verdictsTotal,
		m.stageDuration,
		m.runDuration,
		m.channels,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// ObserveRun records a finished run. verdict and channels are only recorded
// for successful runs.
func (m *Metrics) ObserveRun(succeeded bool, verdict string, channels int, elapsed time.Duration) {
	m.runDuration.Observe(elapsed.Seconds())
	if !succeeded {
		m.runsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.runsTotal.WithLabelValues("success").Inc()
	m.verdictsTotal.WithLabelValues(verdict).Inc()
	m.channels.Set(float64(channels))
}

// WriteTextfile writes the current metrics to path in the node_exporter
// textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return apperrors.IOError{Op: "write metrics", Path: path, Cause: err}
	}
	return nil
}
