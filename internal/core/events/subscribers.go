package events

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterAuditLog writes one structured line per published event.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	bus.SubscribeAll(AllTypes, func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"data", event.Payload())
		return nil
	})
}

type Metrics struct {
	total *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "igreja",
			Name:      "domain_events_total",
			Help:      "Domain events published, by type.",
		}, []string{"event_type"}),
	}
	if reg != nil {
		reg.MustRegister(m.total)
	}
	return m
}

func (m *Metrics) Register(bus *EventBus) {
	bus.SubscribeAll(AllTypes, func(_ context.Context, event Event) error {
		m.total.WithLabelValues(event.EventType()).Inc()
		return nil
	})
}
