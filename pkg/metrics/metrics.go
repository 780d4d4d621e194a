// Package metrics holds the Prometheus collectors used by the wallet, contract
// and storage services. Every SDK instance owns its own registry so several
// instances can live in one process; the host decides whether to expose it.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "walletkit"

// Metrics groups the collectors of one SDK instance. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// Registry holds the collectors below.
	Registry *prometheus.Registry

	rawEvents          *prometheus.CounterVec
	eventsDelivered    *prometheus.CounterVec
	subscriberFailures *prometheus.CounterVec
	networkSwitches    *prometheus.CounterVec
	contractOps        *prometheus.CounterVec
	contractDuration   *prometheus.HistogramVec
	storageOps         *prometheus.CounterVec
}

// New builds a Metrics with a fresh registry and all collectors registered.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		rawEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wallet",
				Name:      "raw_events_total",
				Help:      "Raw wallet events received, by raw type.",
			},
			[]string{"type"},
		),
		eventsDelivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wallet",
				Name:      "events_delivered_total",
				Help:      "Canonical events delivered to subscribers, by event type.",
			},
			[]string{"type"},
		),
		subscriberFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wallet",
				Name:      "subscriber_failures_total",
				Help:      "Subscriber callbacks that returned an error or panicked.",
			},
			[]string{"type"},
		),
		networkSwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wallet",
				Name:      "network_switch_requests_total",
				Help:      "Network selection requests, by outcome.",
			},
			[]string{"outcome"},
		),
		contractOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "contract",
				Name:      "operations_total",
				Help:      "Contract operations, by kind and status.",
			},
			[]string{"op", "status"},
		),
		contractDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "contract",
				Name:      "operation_duration_seconds",
				Help:      "Duration of contract RPC operations.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"op"},
		),
		storageOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "operations_total",
				Help:      "Storage service operations, by kind and status.",
			},
			[]string{"op", "status"},
		),
	}

	m.Registry.MustRegister(
		m.rawEvents,
		m.eventsDelivered,
		m.subscriberFailures,
		m.networkSwitches,
		m.contractOps,
		m.contractDuration,
		m.storageOps,
	)
	return m
}

// Handler returns an HTTP handler exposing the registered collectors.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RawEvent counts a raw connector event.
func (m *Metrics) RawEvent(rawType string) {
	if m == nil {
		return
	}
	m.rawEvents.WithLabelValues(rawType).Inc()
}

// EventDelivered counts one canonical event handed to one subscriber.
func (m *Metrics) EventDelivered(eventType string) {
	if m == nil {
		return
	}
	m.eventsDelivered.WithLabelValues(eventType).Inc()
}

// SubscriberFailure counts a failed subscriber callback.
func (m *Metrics) SubscriberFailure(eventType string) {
	if m == nil {
		return
	}
	m.subscriberFailures.WithLabelValues(eventType).Inc()
}

// NetworkSwitch records the outcome of a SelectNetwork call.
func (m *Metrics) NetworkSwitch(outcome string) {
	if m == nil {
		return
	}
	m.networkSwitches.WithLabelValues(outcome).Inc()
}

// RecordContractOp records a contract operation and its duration.
func (m *Metrics) RecordContractOp(op string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if duration <= 0 {
		duration = time.Millisecond
	}
	m.contractOps.WithLabelValues(op, status(err)).Inc()
	m.contractDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordStorageOp records a storage service operation.
func (m *Metrics) RecordStorageOp(op string, err error) {
	if m == nil {
		return
	}
	m.storageOps.WithLabelValues(op, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
