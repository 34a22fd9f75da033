// Package metrics exports state machine activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/enetx/fsm/v2"
)

// Outcome label values of fsm_evaluations_total.
const (
	OutcomeTransition = "transition"
	OutcomeNoMatch    = "no_match"
	OutcomeError      = "error"
)

// Collector implements fsm.Observer. One collector is meant to be shared by every
// machine of a process; instance ids are deliberately not used as labels.
type Collector struct {
	queued      prometheus.Counter
	evaluations *prometheus.CounterVec
	duration    prometheus.Histogram
	pending     prometheus.Gauge
}

var _ fsm.Observer = (*Collector)(nil)

// New registers the collector's metrics with reg under namespace.
func New(reg prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		queued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fsm_events_queued_total",
			Help:      "Total number of events submitted to state machines.",
		}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fsm_evaluations_total",
			Help:      "Total number of completed event evaluations, by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fsm_evaluation_duration_seconds",
			Help:      "Time spent evaluating a single event, including its actions.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fsm_pending_events",
			Help:      "Events queued but not yet evaluated, across all machines.",
		}),
	}
}

func (c *Collector) EventQueued(uint64) {
	c.queued.Inc()
	c.pending.Inc()
}

func (c *Collector) EventEvaluated(ev fsm.Evaluation) {
	c.pending.Dec()
	c.duration.Observe(ev.Duration.Seconds())
	c.evaluations.WithLabelValues(outcome(ev)).Inc()
}

func outcome(ev fsm.Evaluation) string {
	switch {
	case ev.Err != nil:
		return OutcomeError
	case ev.Matched():
		return OutcomeTransition
	default:
		return OutcomeNoMatch
	}
}

// Queued returns the submitted-events counter.
func (c *Collector) Queued() prometheus.Counter { return c.queued }

// Evaluations returns the evaluation counter for outcome.
func (c *Collector) Evaluations(outcome string) prometheus.Counter {
	return c.evaluations.WithLabelValues(outcome)
}

// Pending returns the pending-events gauge.
func (c *Collector) Pending() prometheus.Gauge { return c.pending }
