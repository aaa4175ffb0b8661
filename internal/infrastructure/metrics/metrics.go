package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "photoshare"

// Metrics holds the Prometheus collectors of the API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	mutations           *prometheus.CounterVec
	eventsPublished     *prometheus.CounterVec
	eventsDropped       *prometheus.CounterVec
	activeSubscriptions prometheus.Gauge
	providerDuration    *prometheus.HistogramVec
}

// New registers the collectors against reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutations processed, by mutation name and outcome.",
		}, []string{"mutation", "outcome"}),
		eventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Events handed to subscribers, by event name.",
		}, []string{"event"}),
		eventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events dropped because a subscriber buffer was full, by event name.",
		}, []string{"event"}),
		activeSubscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_subscriptions",
			Help:      "Currently registered event subscriptions.",
		}),
		providerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "identity_provider_request_duration_seconds",
			Help:      "Latency of identity provider calls, by step and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step", "outcome"}),
	}
}

// ObserveMutation counts one mutation attempt
func (m *Metrics) ObserveMutation(mutation string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(mutation, outcome(err)).Inc()
}

// EventDelivered counts one event delivered to one subscriber
func (m *Metrics) EventDelivered(event string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(event).Inc()
}

// EventDropped counts one event dropped for one subscriber
func (m *Metrics) EventDropped(event string) {
	if m == nil {
		return
	}
	m.eventsDropped.WithLabelValues(event).Inc()
}

// SubscriptionOpened increments the active subscription gauge
func (m *Metrics) SubscriptionOpened() {
	if m == nil {
		return
	}
	m.activeSubscriptions.Inc()
}

// SubscriptionClosed decrements the active subscription gauge
func (m *Metrics) SubscriptionClosed() {
	if m == nil {
		return
	}
	m.activeSubscriptions.Dec()
}

// ObserveProviderCall records the duration of an identity provider call started at start
func (m *Metrics) ObserveProviderCall(step string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(step, outcome(err)).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
