package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParcelsRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edi_parcels_registered_total",
		Help: "Total number of parcels registered for the first time.",
	})

	DuplicateSubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edi_duplicate_submissions_total",
		Help: "Total number of registrations resolved to an existing parcel.",
	})

	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edi_orders_submitted_total",
		Help: "Total number of orders accepted onto the ingest topic.",
	})

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edi_status_transitions_total",
		Help: "Total number of accepted parcel status transitions.",
	},
		[]string{"status"},
	)

	TransitionsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edi_status_transitions_rejected_total",
		Help: "Total number of rejected parcel status transitions.",
	})

	ConsumerMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edi_consumer_messages_total",
		Help: "Total number of broker messages processed by the ingest consumer.",
	})

	ConsumerDLQTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edi_consumer_dlq_total",
		Help: "Total number of messages routed to the dead-letter topic.",
	})

	OutboxPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edi_outbox_published_total",
		Help: "Total number of outbox tasks published to the broker.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edi_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ParcelCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "edi_parcel_cache_items",
		Help: "Current number of parcels held in the status cache.",
	})

	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "edi_circuit_breaker_state",
		Help: "Circuit breaker state per downstream target (0 closed, 1 half-open, 2 open).",
	},
		[]string{"target"},
	)
)
