package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"vibemarket/core/events"
)

type eventMetrics struct {
	emitted *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the lazily-initialised metrics registry tracking structured
// engine events.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vibemarket",
				Subsystem: "events",
				Name:      "emitted_total",
				Help:      "Count of engine change records segmented by module and event type.",
			}, []string{"module", "type"}),
		}
		prometheus.MustRegister(eventRegistry.emitted)
	})
	return eventRegistry
}

// RecordEvent increments the counter for the supplied event type. The module
// label is the prefix of the dotted event name.
func (m *eventMetrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	normalized := strings.TrimSpace(eventType)
	if normalized == "" {
		normalized = "unknown"
	}
	module := normalized
	if idx := strings.IndexByte(normalized, '.'); idx > 0 {
		module = normalized[:idx]
	}
	m.emitted.WithLabelValues(module, normalized).Inc()
}

// MetricsEmitter counts every emitted engine event. Compose it with a
// Recorder via events.MultiEmitter to both persist and measure change records.
type MetricsEmitter struct{}

// Emit implements the events.Emitter interface.
func (MetricsEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	Events().RecordEvent(evt.EventType())
}
