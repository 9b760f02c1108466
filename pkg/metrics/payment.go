package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursepay",
			Subsystem: "payment",
			Name:      "reconciliations_total",
			Help:      "Total number of reconciliation runs by outcome status",
		},
		[]string{"outcome"},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursepay",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total number of processor webhook events by type and result",
		},
		[]string{"type", "result"},
	)

	IntentsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coursepay",
			Subsystem: "payment",
			Name:      "intents_created_total",
			Help:      "Total number of payment intents opened with the processor",
		},
	)
)

func init() {
	Registry.MustRegister(ReconciliationsTotal, WebhookEventsTotal, IntentsCreatedTotal)
}
