// Package metrics exposes reconciliation counters to prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rosterbot/internal/roster"
)

const namespace = "rosterbot"

// Config holds configuration for the metrics endpoint.
type Config struct {
	// Address to serve /metrics on. Empty disables the endpoint.
	Address string `mapstructure:"address" default:":9090"`
}

// Recorder implements roster.Metrics on a dedicated registry.
type Recorder struct {
	registry      *prometheus.Registry
	passes        *prometheus.CounterVec
	passDuration  *prometheus.HistogramVec
	events        *prometheus.CounterVec
	batchesFailed prometheus.Counter
	ticksSkipped  prometheus.Counter
}

var _ roster.Metrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_passes_total",
			Help:      "Reconciliation passes by outcome.",
		}, []string{"outcome"}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_pass_duration_seconds",
			Help:      "Duration of reconciliation passes by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_events_total",
			Help:      "Roster change events notified, by kind.",
		}, []string{"kind"}),
		batchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_batches_failed_total",
			Help:      "Notification batches the emitter could not deliver.",
		}),
		ticksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_ticks_skipped_total",
			Help:      "Guild passes skipped because the previous one was still running.",
		}),
	}
	r.registry.MustRegister(r.passes, r.passDuration, r.events, r.batchesFailed, r.ticksSkipped)
	return r
}

func (r *Recorder) PassCompleted(outcome roster.Outcome, duration time.Duration) {
	r.passes.WithLabelValues(string(outcome)).Inc()
	r.passDuration.WithLabelValues(string(outcome)).Observe(duration.Seconds())
}

func (r *Recorder) EventsEmitted(kind roster.ChangeKind, n int) {
	r.events.WithLabelValues(kind.String()).Add(float64(n))
}

func (r *Recorder) BatchFailed() { r.batchesFailed.Inc() }

func (r *Recorder) TickSkipped() { r.ticksSkipped.Inc() }

// Registry is exposed for tests and for registering extra collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// NewServer returns the /metrics server for cfg, or nil if disabled.
func NewServer(cfg Config, r *Recorder) *http.Server {
	if cfg.Address == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
