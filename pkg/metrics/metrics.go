// Package metrics records dispatcher outcomes.
//
// Recorder is the port used by the dispatcher. Prometheus implements it on
// top of client_golang collectors; Noop discards everything.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the sends counter.
const (
	OutcomeSuccess            = "success"
	OutcomeSerializationError = "serialization_error"
	OutcomeTransportError     = "transport_error"
)

// Recorder observes dispatcher activity.
type Recorder interface {
	// SendCompleted records one finished send of n events.
	SendCompleted(outcome string, events int, took time.Duration)

	// UserAgentResolved records whether identification resolution succeeded.
	UserAgentResolved(ok bool)
}

// Noop implements Recorder by discarding observations.
type Noop struct{}

func (Noop) SendCompleted(string, int, time.Duration) {}
func (Noop) UserAgentResolved(bool)                   {}

// Prometheus implements Recorder and prometheus.Collector.
type Prometheus struct {
	sends     *prometheus.CounterVec
	events    prometheus.Counter
	duration  prometheus.Histogram
	userAgent *prometheus.GaugeVec
}

// NewPrometheus creates the collectors. Labels are attached to every metric
// as constant labels.
func NewPrometheus(labels map[string]string) *Prometheus {
	return &Prometheus{
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "trackship",
			Name:        "sends_total",
			Help:        "Number of batch sends by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "trackship",
			Name:        "events_sent_total",
			Help:        "Number of events delivered in successful sends.",
			ConstLabels: labels,
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "trackship",
			Name:        "send_duration_seconds",
			Help:        "Round-trip time of batch sends that reached the network.",
			ConstLabels: labels,
			Buckets:     []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		userAgent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "trackship",
			Name:        "useragent_resolution",
			Help:        "Set to 1 for the result of the identification resolution.",
			ConstLabels: labels,
		}, []string{"result"}),
	}
}

// SendCompleted implements Recorder.
func (p *Prometheus) SendCompleted(outcome string, events int, took time.Duration) {
	p.sends.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSerializationError {
		return
	}
	p.duration.Observe(took.Seconds())
	if outcome == OutcomeSuccess {
		p.events.Add(float64(events))
	}
}

// UserAgentResolved implements Recorder.
func (p *Prometheus) UserAgentResolved(ok bool) {
	if ok {
		p.userAgent.WithLabelValues("resolved").Set(1)
		return
	}
	p.userAgent.WithLabelValues("failed").Set(1)
}

// Describe implements prometheus.Collector.
func (p *Prometheus) Describe(ch chan<- *prometheus.Desc) {
	p.sends.Describe(ch)
	p.events.Describe(ch)
	p.duration.Describe(ch)
	p.userAgent.Describe(ch)
}

// Collect implements prometheus.Collector.
func (p *Prometheus) Collect(ch chan<- prometheus.Metric) {
	p.sends.Collect(ch)
	p.events.Collect(ch)
	p.duration.Collect(ch)
	p.userAgent.Collect(ch)
}
